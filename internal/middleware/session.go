package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/campushub-api/internal/models"
	"github.com/noah-isme/campushub-api/internal/service"
	"github.com/noah-isme/campushub-api/internal/utils"
)

// Locals keys populated by RequireSession.
const (
	LocalUserID   = "user_id"
	LocalUserRole = "user_role"
	LocalUser     = "user"
)

// RequireSession validates the bearer token and checks it still belongs to
// the active session, so logging out revokes every token issued before.
func RequireSession(tokens service.TokenService, identity service.IdentityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		session, ok, err := identity.GetSession(c.UserContext())
		if err != nil {
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to read session")
		}
		if !ok || session.ID != claims.UserID {
			return utils.SendError(c, fiber.StatusUnauthorized, "session expired")
		}

		c.Locals(LocalUserID, session.ID)
		c.Locals(LocalUserRole, string(session.Role))
		c.Locals(LocalUser, session)

		return c.Next()
	}
}

// CurrentUser returns the session user bound by RequireSession.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(LocalUser).(models.User)
	return user, ok
}
