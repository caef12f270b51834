package models

// Event is a campus event. Registration counts are maintained by callers.
type Event struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	Date            string `json:"date"`
	Location        string `json:"location"`
	Capacity        int    `json:"capacity"`
	RegisteredCount int    `json:"registeredCount"`
	Status          string `json:"status"`
	CreatedBy       string `json:"createdBy"`
	Organizer       string `json:"organizer"`
	ImageURL        string `json:"imageUrl"`
}
