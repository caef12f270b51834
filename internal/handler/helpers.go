package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campushub-api/internal/middleware"
	"github.com/noah-isme/campushub-api/internal/models"
	"github.com/noah-isme/campushub-api/internal/store"
	"github.com/noah-isme/campushub-api/internal/utils"
)

func parseQueryBool(c *fiber.Ctx, key string) (bool, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}

func currentUser(c *fiber.Ctx) models.User {
	user, _ := middleware.CurrentUser(c)
	return user
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "invalid payload"
	}
	first := validationErrors[0]
	return "invalid " + strings.ToLower(first.Field()) + ": failed " + first.Tag()
}

// statusForKind maps store failure kinds to HTTP status codes.
func statusForKind(kind store.Kind) int {
	switch kind {
	case store.KindNotFound:
		return fiber.StatusNotFound
	case store.KindConflict, store.KindCapacityExceeded:
		return fiber.StatusConflict
	case store.KindInvalidState:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError renders err in the response envelope. Business-rule failures
// expose their message; anything else is logged and hidden behind fallback.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error, fallback string) error {
	if isValidationError(err) {
		return utils.SendError(c, fiber.StatusBadRequest, validationMessage(err))
	}

	kind := store.KindOf(err)
	if kind == "" || kind == store.KindCorruptState {
		requestLogger(logger, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}

	return utils.SendError(c, statusForKind(kind), store.MessageOf(err))
}
