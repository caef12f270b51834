package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/noah-isme/campushub-api/internal/dto"
	"github.com/noah-isme/campushub-api/pkg/ai"
)

// DescriptionService drafts course and event descriptions. Generation never
// fails; only invalid requests return an error.
type DescriptionService interface {
	Describe(ctx context.Context, subject ai.Subject, payload dto.DescriptionRequest) (dto.DescriptionResponse, error)
}

type descriptionService struct {
	describer *ai.FallbackDescriber
	validator *validator.Validate
	sanitizer *bluemonday.Policy
}

// NewDescriptionService wraps the fallback describer.
func NewDescriptionService(describer *ai.FallbackDescriber, validate *validator.Validate) DescriptionService {
	return &descriptionService{
		describer: describer,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *descriptionService) Describe(ctx context.Context, subject ai.Subject, payload dto.DescriptionRequest) (dto.DescriptionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DescriptionResponse{}, err
	}

	text := s.describer.Describe(ctx, ai.DescriptionRequest{
		Subject:  subject,
		Title:    payload.Title,
		Category: payload.Category,
	})

	return dto.DescriptionResponse{Description: s.sanitizer.Sanitize(text)}, nil
}
