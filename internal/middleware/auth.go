package middleware

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mattear/canvas-avatar/internal/domain"
	"github.com/mattear/canvas-avatar/internal/port"
)

// CookieName is the session cookie holding the LMS bearer token.
const CookieName = "token"

const credentialKey = "credential"

// RequireSession guards browser navigations. A missing or rejected token
// redirects to the login flow; validation ambiguity fails closed.
func RequireSession(validator port.TokenValidator) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := c.Cookies(CookieName)
		if token == "" || !validator.ValidateToken(c.Context(), token) {
			return c.Redirect().To("/login")
		}

		c.Locals(credentialKey, domain.Credential(token))
		return c.Next()
	}
}

// GetCredential extracts the session credential from Fiber locals. Handlers
// outside guarded routes read the cookie directly instead.
func GetCredential(c fiber.Ctx) domain.Credential {
	cred, ok := c.Locals(credentialKey).(domain.Credential)
	if !ok {
		return ""
	}
	return cred
}
