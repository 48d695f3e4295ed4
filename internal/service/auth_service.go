package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mattear/canvas-avatar/internal/port"
)

// AuthService handles the OAuth2 login flow against the LMS.
type AuthService struct {
	canvas port.CanvasProvider
}

// NewAuthService creates a new authentication service.
func NewAuthService(canvas port.CanvasProvider) *AuthService {
	return &AuthService{canvas: canvas}
}

// LoginURL returns the provider authorization URL to redirect the user to.
func (s *AuthService) LoginURL() string {
	return s.canvas.AuthCodeURL()
}

// Exchange trades an authorization code for an access token. The token
// becomes the caller's session credential; nothing is stored server-side.
func (s *AuthService) Exchange(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", port.ErrMissingCode
	}

	token, err := s.canvas.ExchangeCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange code: %w", err)
	}

	slog.Info("token exchange succeeded", "token_type", token.TokenType, "expires_in", token.ExpiresIn)
	return token.AccessToken, nil
}
