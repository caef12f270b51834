package dto

import "github.com/noah-isme/campushub-api/internal/models"

// EventCreateRequest describes a new campus event.
type EventCreateRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=4000"`
	Category    string `json:"category" validate:"required,max=64"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Location    string `json:"location" validate:"required,max=200"`
	Capacity    int    `json:"capacity" validate:"gte=0"`
	Status      string `json:"status" validate:"omitempty,oneof=Upcoming Ongoing Completed Cancelled"`
}

// EventUpdateRequest patches an event. Nil fields are kept.
type EventUpdateRequest struct {
	Title           *string `json:"title" validate:"omitempty,max=200"`
	Description     *string `json:"description" validate:"omitempty,max=4000"`
	Category        *string `json:"category" validate:"omitempty,max=64"`
	Date            *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Location        *string `json:"location" validate:"omitempty,max=200"`
	Capacity        *int    `json:"capacity" validate:"omitempty,gte=0"`
	RegisteredCount *int    `json:"registered_count" validate:"omitempty,gte=0"`
	Status          *string `json:"status" validate:"omitempty,oneof=Upcoming Ongoing Completed Cancelled"`
}

// EventResponse is the public view of an event.
type EventResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	Date            string `json:"date"`
	Location        string `json:"location"`
	Capacity        int    `json:"capacity"`
	RegisteredCount int    `json:"registered_count"`
	Status          string `json:"status"`
	CreatedBy       string `json:"created_by"`
	Organizer       string `json:"organizer"`
	ImageURL        string `json:"image_url"`
}

// NewEventResponse maps an event record to its response.
func NewEventResponse(event models.Event) EventResponse {
	return EventResponse{
		ID:              event.ID,
		Title:           event.Title,
		Description:     event.Description,
		Category:        event.Category,
		Date:            event.Date,
		Location:        event.Location,
		Capacity:        event.Capacity,
		RegisteredCount: event.RegisteredCount,
		Status:          event.Status,
		CreatedBy:       event.CreatedBy,
		Organizer:       event.Organizer,
		ImageURL:        event.ImageURL,
	}
}

// NewEventResponseSlice maps a slice of events.
func NewEventResponseSlice(events []models.Event) []EventResponse {
	responses := make([]EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, NewEventResponse(event))
	}
	return responses
}

// EventRecord is one entry of a whole-collection replacement.
type EventRecord struct {
	ID              string `json:"id" validate:"required,max=64"`
	Title           string `json:"title" validate:"required,max=200"`
	Description     string `json:"description" validate:"max=4000"`
	Category        string `json:"category" validate:"max=64"`
	Date            string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Location        string `json:"location" validate:"max=200"`
	Capacity        int    `json:"capacity" validate:"gte=0"`
	RegisteredCount int    `json:"registered_count" validate:"gte=0"`
	Status          string `json:"status" validate:"omitempty,oneof=Upcoming Ongoing Completed Cancelled"`
	CreatedBy       string `json:"created_by"`
	Organizer       string `json:"organizer"`
	ImageURL        string `json:"image_url" validate:"omitempty,url"`
}

// EventReplaceRequest replaces the whole event collection.
type EventReplaceRequest struct {
	Events []EventRecord `json:"events" validate:"dive"`
}

// ToModels converts the request into event records.
func (r EventReplaceRequest) ToModels() []models.Event {
	events := make([]models.Event, 0, len(r.Events))
	for _, record := range r.Events {
		events = append(events, models.Event{
			ID:              record.ID,
			Title:           record.Title,
			Description:     record.Description,
			Category:        record.Category,
			Date:            record.Date,
			Location:        record.Location,
			Capacity:        record.Capacity,
			RegisteredCount: record.RegisteredCount,
			Status:          record.Status,
			CreatedBy:       record.CreatedBy,
			Organizer:       record.Organizer,
			ImageURL:        record.ImageURL,
		})
	}
	return events
}
