package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campushub-api/internal/dto"
	"github.com/noah-isme/campushub-api/internal/models"
	"github.com/noah-isme/campushub-api/internal/store"
)

const defaultEventStatus = "Upcoming"

// EventService is plain CRUD over the event collection. Capacity is not
// enforced here.
type EventService interface {
	List(ctx context.Context) ([]models.Event, error)
	SaveAll(ctx context.Context, events []models.Event, actorID, action string) error
	Create(ctx context.Context, actor models.User, payload dto.EventCreateRequest) (models.Event, error)
	Update(ctx context.Context, actorID, id string, payload dto.EventUpdateRequest) (models.Event, error)
	Delete(ctx context.Context, actorID, id string) error
}

type eventService struct {
	store     *store.Store
	ledger    *AuditLedger
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewEventService constructs the event registry.
func NewEventService(s *store.Store, ledger *AuditLedger, validate *validator.Validate, logger zerolog.Logger) EventService {
	return &eventService{
		store:     s,
		ledger:    ledger,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "event_service").Logger(),
	}
}

func (s *eventService) List(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := s.store.Do(ctx, func(ctx context.Context) error {
		loaded, err := store.Load[models.Event](ctx, s.store, store.KeyEvents)
		events = loaded
		return err
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// SaveAll replaces the event collection. An empty actorID skips auditing.
func (s *eventService) SaveAll(ctx context.Context, events []models.Event, actorID, action string) error {
	return s.store.Do(ctx, func(ctx context.Context) error {
		return s.replaceAll(ctx, events, actorID, action, "Modified event list")
	})
}

func (s *eventService) Create(ctx context.Context, actor models.User, payload dto.EventCreateRequest) (models.Event, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Event{}, err
	}

	id := uuid.NewString()
	status := payload.Status
	if status == "" {
		status = defaultEventStatus
	}
	event := models.Event{
		ID:          id,
		Title:       strings.TrimSpace(payload.Title),
		Description: s.sanitizer.Sanitize(payload.Description),
		Category:    strings.TrimSpace(payload.Category),
		Date:        payload.Date,
		Location:    strings.TrimSpace(payload.Location),
		Capacity:    payload.Capacity,
		Status:      status,
		CreatedBy:   actor.ID,
		Organizer:   actor.Name,
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/400", id),
	}

	err := s.store.Do(ctx, func(ctx context.Context) error {
		events, err := store.Load[models.Event](ctx, s.store, store.KeyEvents)
		if err != nil {
			return err
		}
		return s.replaceAll(ctx, append(events, event), actor.ID, models.ActionCreateEvent, fmt.Sprintf("Created event %s", event.Title))
	})
	if err != nil {
		return models.Event{}, err
	}

	s.logger.Info().Str("event_id", event.ID).Msg("event created")
	return event, nil
}

func (s *eventService) Update(ctx context.Context, actorID, id string, payload dto.EventUpdateRequest) (models.Event, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Event{}, err
	}

	var updated models.Event
	err := s.store.Do(ctx, func(ctx context.Context) error {
		events, err := store.Load[models.Event](ctx, s.store, store.KeyEvents)
		if err != nil {
			return err
		}
		idx := indexOfEvent(events, id)
		if idx < 0 {
			return ErrEventNotFound
		}

		s.applyUpdate(&events[idx], payload)
		updated = events[idx]
		return s.replaceAll(ctx, events, actorID, models.ActionUpdateEvent, fmt.Sprintf("Updated event ID %s", id))
	})
	if err != nil {
		return models.Event{}, err
	}
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, actorID, id string) error {
	return s.store.Do(ctx, func(ctx context.Context) error {
		events, err := store.Load[models.Event](ctx, s.store, store.KeyEvents)
		if err != nil {
			return err
		}
		if indexOfEvent(events, id) < 0 {
			return ErrEventNotFound
		}

		remaining := make([]models.Event, 0, len(events)-1)
		for _, event := range events {
			if event.ID != id {
				remaining = append(remaining, event)
			}
		}
		return s.replaceAll(ctx, remaining, actorID, models.ActionDeleteEvent, fmt.Sprintf("Deleted event ID %s", id))
	})
}

// replaceAll must run inside store.Do.
func (s *eventService) replaceAll(ctx context.Context, events []models.Event, actorID, action, details string) error {
	seen := make(map[string]struct{}, len(events))
	sanitized := make([]models.Event, len(events))
	for i, event := range events {
		if _, dup := seen[event.ID]; dup || strings.TrimSpace(event.ID) == "" {
			return ErrDuplicateEventID
		}
		seen[event.ID] = struct{}{}
		event.Description = s.sanitizer.Sanitize(event.Description)
		sanitized[i] = event
	}

	if err := store.Save(ctx, s.store, store.KeyEvents, sanitized); err != nil {
		return err
	}

	if actorID == "" {
		return nil
	}
	if action == "" {
		action = models.ActionSaveEvents
	}
	return s.ledger.append(ctx, actorID, action, details)
}

func (s *eventService) applyUpdate(event *models.Event, payload dto.EventUpdateRequest) {
	if payload.Title != nil {
		event.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Description != nil {
		event.Description = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.Category != nil {
		event.Category = strings.TrimSpace(*payload.Category)
	}
	if payload.Date != nil {
		event.Date = *payload.Date
	}
	if payload.Location != nil {
		event.Location = strings.TrimSpace(*payload.Location)
	}
	if payload.Capacity != nil {
		event.Capacity = *payload.Capacity
	}
	if payload.RegisteredCount != nil {
		event.RegisteredCount = *payload.RegisteredCount
	}
	if payload.Status != nil {
		event.Status = *payload.Status
	}
}

func indexOfEvent(events []models.Event, id string) int {
	for i, event := range events {
		if event.ID == id {
			return i
		}
	}
	return -1
}
