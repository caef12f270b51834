package ai

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// FallbackDescriber never fails: any error becomes FallbackDescription and an
// empty answer becomes EmptyDescription.
type FallbackDescriber struct {
	next   Describer
	logger zerolog.Logger
}

// WithFallback wraps next. A nil next always yields FallbackDescription.
func WithFallback(next Describer, logger zerolog.Logger) *FallbackDescriber {
	return &FallbackDescriber{
		next:   next,
		logger: logger.With().Str("component", "ai_describer").Logger(),
	}
}

// Describe returns generated text or one of the fixed fallbacks.
func (f *FallbackDescriber) Describe(ctx context.Context, req DescriptionRequest) string {
	if f.next == nil {
		return FallbackDescription
	}

	text, err := f.next.Describe(ctx, req)
	if err != nil {
		f.logger.Warn().Err(err).Str("subject", string(req.Subject)).Msg("description generation failed")
		return FallbackDescription
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return EmptyDescription
	}
	return text
}
