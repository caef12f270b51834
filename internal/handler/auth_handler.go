package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campushub-api/internal/dto"
	"github.com/noah-isme/campushub-api/internal/service"
	"github.com/noah-isme/campushub-api/internal/utils"
)

// AuthHandler exposes registration and the session lifecycle.
type AuthHandler struct {
	identity  service.IdentityService
	tokens    service.TokenService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(identity service.IdentityService, tokens service.TokenService, validate *validator.Validate, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		identity:  identity,
		tokens:    tokens,
		validator: validate,
		logger:    logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires auth routes. guard protects the routes needing a session.
func (h *AuthHandler) Register(router fiber.Router, guard fiber.Handler, limiter fiber.Handler) {
	router.Post("/register", limiter, h.register)
	router.Post("/login", limiter, h.login)
	router.Post("/logout", guard, h.logout)
	router.Get("/session", guard, h.session)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.identity.Register(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to register user")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user registered", dto.NewUserResponse(user))
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return respondError(c, h.logger, err, "failed to sign in")
	}

	user, err := h.identity.Authenticate(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return utils.SendError(c, fiber.StatusUnauthorized, "Invalid credentials.")
		}
		return respondError(c, h.logger, err, "failed to sign in")
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to issue session token")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to sign in")
	}

	return utils.SendSuccess(c, "signed in", dto.LoginResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	})
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	if err := h.identity.ClearSession(c.UserContext()); err != nil {
		return respondError(c, h.logger, err, "failed to sign out")
	}
	return utils.SendSuccess(c, "signed out", nil)
}

func (h *AuthHandler) session(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "session retrieved", dto.NewUserResponse(currentUser(c)))
}
