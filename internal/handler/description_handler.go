package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campushub-api/internal/dto"
	"github.com/noah-isme/campushub-api/internal/service"
	"github.com/noah-isme/campushub-api/internal/utils"
	"github.com/noah-isme/campushub-api/pkg/ai"
)

// DescriptionHandler drafts course and event descriptions.
type DescriptionHandler struct {
	service service.DescriptionService
	logger  zerolog.Logger
}

// NewDescriptionHandler constructs the handler.
func NewDescriptionHandler(service service.DescriptionService, logger zerolog.Logger) *DescriptionHandler {
	return &DescriptionHandler{
		service: service,
		logger:  logger.With().Str("component", "description_handler").Logger(),
	}
}

// Register wires description routes.
func (h *DescriptionHandler) Register(router fiber.Router, limiter fiber.Handler) {
	router.Post("/:subject", limiter, h.describe)
}

func (h *DescriptionHandler) describe(c *fiber.Ctx) error {
	subject := ai.Subject(c.Params("subject"))
	if subject != ai.SubjectCourse && subject != ai.SubjectEvent {
		return utils.SendError(c, fiber.StatusNotFound, "unknown description subject")
	}

	var payload dto.DescriptionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	resp, err := h.service.Describe(c.UserContext(), subject, payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to generate description")
	}
	return utils.SendSuccess(c, "description generated", resp)
}
