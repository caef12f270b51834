package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campushub-api/internal/dto"
	"github.com/noah-isme/campushub-api/internal/models"
	"github.com/noah-isme/campushub-api/internal/service"
	"github.com/noah-isme/campushub-api/internal/store"
	"github.com/noah-isme/campushub-api/internal/utils"
)

const enrollSuccessMessage = "Successfully enrolled"

// CourseHandler exposes the catalogue, enrollment and schedule endpoints.
type CourseHandler struct {
	courses   service.CourseService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(courses service.CourseService, validate *validator.Validate, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courses:   courses,
		validator: validate,
		logger:    logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register wires course routes. manage guards catalogue writes and student
// guards enrollment.
func (h *CourseHandler) Register(router fiber.Router, manage, student fiber.Handler) {
	router.Get("", h.list)
	router.Put("", manage, h.replace)
	router.Post("", manage, h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", manage, h.update)
	router.Delete("/:id", manage, h.archive)
	router.Post("/:id/enroll", student, h.enroll)
	router.Delete("/:id/enroll", student, h.drop)
}

// RegisterSchedule wires the signed in student's schedule.
func (h *CourseHandler) RegisterSchedule(router fiber.Router, student fiber.Handler) {
	router.Get("", student, h.schedule)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	includeArchived, err := parseQueryBool(c, "include_archived")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid include_archived")
	}

	courses, err := h.courses.List(c.UserContext(), includeArchived)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list courses")
	}

	return utils.SendSuccess(c, "courses retrieved", dto.NewCourseResponseSlice(courses))
}

func (h *CourseHandler) get(c *fiber.Ctx) error {
	course, err := h.courses.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to load course")
	}
	return utils.SendSuccess(c, "course retrieved", dto.NewCourseResponse(course))
}

func (h *CourseHandler) replace(c *fiber.Ctx) error {
	var payload dto.CourseReplaceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return respondError(c, h.logger, err, "failed to save courses")
	}

	actor := currentUser(c)
	if err := h.courses.SaveAll(c.UserContext(), payload.ToModels(), actor.ID, models.ActionUpdateCourse); err != nil {
		return respondError(c, h.logger, err, "failed to save courses")
	}

	courses, err := h.courses.List(c.UserContext(), true)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list courses")
	}
	return utils.SendSuccess(c, "courses saved", dto.NewCourseResponseSlice(courses))
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	course, err := h.courses.Create(c.UserContext(), currentUser(c).ID, payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to create course")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", dto.NewCourseResponse(course))
}

func (h *CourseHandler) update(c *fiber.Ctx) error {
	var payload dto.CourseUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	course, err := h.courses.Update(c.UserContext(), currentUser(c).ID, c.Params("id"), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to update course")
	}

	return utils.SendSuccess(c, "course updated", dto.NewCourseResponse(course))
}

func (h *CourseHandler) archive(c *fiber.Ctx) error {
	if err := h.courses.SoftDelete(c.UserContext(), c.Params("id"), currentUser(c).ID); err != nil {
		return respondError(c, h.logger, err, "failed to archive course")
	}
	return utils.SendSuccess(c, "course archived", nil)
}

func (h *CourseHandler) enroll(c *fiber.Ctx) error {
	err := h.courses.Enroll(c.UserContext(), c.Params("id"), currentUser(c).ID)
	if err != nil {
		kind := store.KindOf(err)
		if kind == "" || kind == store.KindCorruptState {
			return respondError(c, h.logger, err, "failed to enroll")
		}
		message := store.MessageOf(err)
		return utils.SendFailure(c, statusForKind(kind), message, dto.EnrollResponse{Success: false, Message: message})
	}

	return utils.SendSuccess(c, enrollSuccessMessage, dto.EnrollResponse{Success: true, Message: enrollSuccessMessage})
}

func (h *CourseHandler) drop(c *fiber.Ctx) error {
	if err := h.courses.Drop(c.UserContext(), c.Params("id"), currentUser(c).ID); err != nil {
		return respondError(c, h.logger, err, "failed to drop course")
	}
	return utils.SendSuccess(c, "course dropped", nil)
}

func (h *CourseHandler) schedule(c *fiber.Ctx) error {
	courses, err := h.courses.ListForStudent(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load schedule")
	}
	return utils.SendSuccess(c, "schedule retrieved", dto.NewCourseResponseSlice(courses))
}
