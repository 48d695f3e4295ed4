package handler

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/mattear/canvas-avatar/internal/domain"
	"github.com/mattear/canvas-avatar/internal/middleware"
	"github.com/mattear/canvas-avatar/internal/port"
	"github.com/mattear/canvas-avatar/internal/service"
)

var requestValidator = validator.New()

type uploadRequest struct {
	ImageURL string `json:"imageUrl" validate:"required,url"`
}

// AvatarHandler handles the profile-picture upload endpoint.
type AvatarHandler struct {
	avatarService *service.AvatarService
	canvas        port.CanvasProvider
}

// NewAvatarHandler creates a new avatar handler.
func NewAvatarHandler(avatarService *service.AvatarService, canvas port.CanvasProvider) *AvatarHandler {
	return &AvatarHandler{avatarService: avatarService, canvas: canvas}
}

// Register sets up avatar routes.
func (h *AvatarHandler) Register(app *fiber.App) {
	app.Post("/api/upload-profile-picture", h.Upload)
}

// Upload runs the upload pipeline for the image named in the request body.
// A missing or rejected token yields 401 with a fresh authorization URL so
// programmatic callers can resume the OAuth flow.
func (h *AvatarHandler) Upload(c fiber.Ctx) error {
	cred := domain.Credential(c.Cookies(middleware.CookieName))
	if cred.Empty() {
		return h.unauthorized(c)
	}

	var req uploadRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image URL is required",
		})
	}
	if err := requestValidator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image URL is required",
		})
	}

	if err := h.avatarService.SetProfilePicture(c.Context(), cred, req.ImageURL); err != nil {
		if errors.Is(err, port.ErrUnauthorized) {
			return h.unauthorized(c)
		}
		slog.Error("profile picture update failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Profile picture updated successfully!",
	})
}

func (h *AvatarHandler) unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":    "Unauthorized. Access token invalid or revoked.",
		"redirect": h.canvas.AuthCodeURL(),
	})
}
