package handler

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/mattear/canvas-avatar/internal/middleware"
	"github.com/mattear/canvas-avatar/internal/port"
	"github.com/mattear/canvas-avatar/internal/service"
)

// CookieConfig controls the session cookie written at OAuth callback time.
type CookieConfig struct {
	MaxAge   int // seconds
	SameSite string
}

// AuthHandler handles the OAuth2 login flow endpoints.
type AuthHandler struct {
	authService *service.AuthService
	cookie      CookieConfig
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Register sets up auth routes.
func (h *AuthHandler) Register(app *fiber.App) {
	app.Get("/login", h.Login)
	app.Get("/login/oauth2", h.Callback)
	app.Get("/api/check-auth", h.CheckAuth)
}

// Login redirects to the LMS authorization URL.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	return c.Redirect().To(h.authService.LoginURL())
}

// Callback handles the OAuth2 callback: exchanges the code, sets the session
// cookie, and redirects to the app shell.
func (h *AuthHandler) Callback(c fiber.Ctx) error {
	code := c.Query("code")

	token, err := h.authService.Exchange(c.Context(), code)
	if err != nil {
		if errors.Is(err, port.ErrMissingCode) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Authorization code is missing.",
			})
		}
		slog.Error("token exchange failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to exchange token.",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.cookie.MaxAge,
		HTTPOnly: true,
		Secure:   true,
		SameSite: sameSiteMode(h.cookie.SameSite),
	})

	return c.Redirect().To("/app")
}

// CheckAuth reports login status from cookie presence only; validity is
// checked where the token is actually used.
func (h *AuthHandler) CheckAuth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"authorized": c.Cookies(middleware.CookieName) != "",
	})
}

func sameSiteMode(mode string) string {
	switch strings.ToLower(mode) {
	case "strict":
		return fiber.CookieSameSiteStrictMode
	case "none":
		return fiber.CookieSameSiteNoneMode
	default:
		return fiber.CookieSameSiteLaxMode
	}
}
