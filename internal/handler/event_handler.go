package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campushub-api/internal/dto"
	"github.com/noah-isme/campushub-api/internal/models"
	"github.com/noah-isme/campushub-api/internal/service"
	"github.com/noah-isme/campushub-api/internal/utils"
)

// EventHandler exposes campus event endpoints.
type EventHandler struct {
	events    service.EventService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEventHandler constructs the handler.
func NewEventHandler(events service.EventService, validate *validator.Validate, logger zerolog.Logger) *EventHandler {
	return &EventHandler{
		events:    events,
		validator: validate,
		logger:    logger.With().Str("component", "event_handler").Logger(),
	}
}

// Register wires event routes. manage guards writes.
func (h *EventHandler) Register(router fiber.Router, manage fiber.Handler) {
	router.Get("", h.list)
	router.Put("", manage, h.replace)
	router.Post("", manage, h.create)
	router.Patch("/:id", manage, h.update)
	router.Delete("/:id", manage, h.delete)
}

func (h *EventHandler) list(c *fiber.Ctx) error {
	events, err := h.events.List(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "failed to list events")
	}
	return utils.SendSuccess(c, "events retrieved", dto.NewEventResponseSlice(events))
}

func (h *EventHandler) replace(c *fiber.Ctx) error {
	var payload dto.EventReplaceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return respondError(c, h.logger, err, "failed to save events")
	}

	events := payload.ToModels()
	if err := h.events.SaveAll(c.UserContext(), events, currentUser(c).ID, models.ActionSaveEvents); err != nil {
		return respondError(c, h.logger, err, "failed to save events")
	}
	return utils.SendSuccess(c, "events saved", dto.NewEventResponseSlice(events))
}

func (h *EventHandler) create(c *fiber.Ctx) error {
	var payload dto.EventCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	event, err := h.events.Create(c.UserContext(), currentUser(c), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to create event")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "event created", dto.NewEventResponse(event))
}

func (h *EventHandler) update(c *fiber.Ctx) error {
	var payload dto.EventUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	event, err := h.events.Update(c.UserContext(), currentUser(c).ID, c.Params("id"), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to update event")
	}
	return utils.SendSuccess(c, "event updated", dto.NewEventResponse(event))
}

func (h *EventHandler) delete(c *fiber.Ctx) error {
	if err := h.events.Delete(c.UserContext(), currentUser(c).ID, c.Params("id")); err != nil {
		return respondError(c, h.logger, err, "failed to delete event")
	}
	return utils.SendSuccess(c, "event deleted", nil)
}
