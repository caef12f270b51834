package ai

import "context"

// Subject selects the prompt used for a description.
type Subject string

// Supported description subjects.
const (
	SubjectCourse Subject = "course"
	SubjectEvent  Subject = "event"
)

// Fixed texts returned instead of errors.
const (
	FallbackDescription = "Could not generate description. Please check API configuration."
	EmptyDescription    = "Description generation failed."
)

// DescriptionRequest names what should be described.
type DescriptionRequest struct {
	Subject  Subject
	Title    string
	Category string
}

// Describer produces catalogue copy for a course or event.
type Describer interface {
	Describe(ctx context.Context, req DescriptionRequest) (string, error)
}
