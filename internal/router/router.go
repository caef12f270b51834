package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/campushub-api/internal/config"
	"github.com/noah-isme/campushub-api/internal/handler"
	"github.com/noah-isme/campushub-api/internal/middleware"
	"github.com/noah-isme/campushub-api/internal/models"
	"github.com/noah-isme/campushub-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler        *handler.AuthHandler
	CourseHandler      *handler.CourseHandler
	EventHandler       *handler.EventHandler
	AuditHandler       *handler.AuditHandler
	DashboardHandler   *handler.DashboardHandler
	DescriptionHandler *handler.DescriptionHandler
	SeedHandler        *handler.SeedHandler
	SessionMiddleware  fiber.Handler
	AuthLimiter        fiber.Handler
	AILimiter          fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	session := orNext(deps.SessionMiddleware)
	manage := middleware.RequireRole(models.RoleAdmin, models.RoleTeacher)
	student := middleware.RequireRole(models.RoleStudent)
	admin := middleware.RequireRole(models.RoleAdmin)

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"), session, orNext(deps.AuthLimiter))
	}

	if deps.CourseHandler != nil {
		deps.CourseHandler.Register(api.Group("/courses", session), manage, student)
		deps.CourseHandler.RegisterSchedule(api.Group("/schedule", session), student)
	}

	if deps.EventHandler != nil {
		deps.EventHandler.Register(api.Group("/events", session), manage)
	}

	if deps.AuditHandler != nil {
		deps.AuditHandler.Register(api.Group("/audit-logs", session, admin))
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(api.Group("/dashboard", session))
	}

	if deps.DescriptionHandler != nil {
		deps.DescriptionHandler.Register(api.Group("/descriptions", session, manage), orNext(deps.AILimiter))
	}

	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(api.Group("/seed", session, admin))
	}
}

func orNext(h fiber.Handler) fiber.Handler {
	if h != nil {
		return h
	}
	return func(c *fiber.Ctx) error { return c.Next() }
}
