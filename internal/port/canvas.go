package port

import (
	"context"

	"github.com/mattear/canvas-avatar/internal/domain"
)

// CanvasProvider abstracts the LMS REST API. One implementation talks to a
// real Canvas instance; tests substitute recording fakes.
type CanvasProvider interface {
	// AuthCodeURL returns the full OAuth2 authorization URL for redirecting
	// the user, including scopes when the deployment enforces them.
	AuthCodeURL() string

	// ExchangeCode trades an authorization code for an access token.
	ExchangeCode(ctx context.Context, code string) (*domain.TokenResponse, error)

	// ValidateToken reports whether the LMS still accepts the token.
	// Transport failures report false.
	ValidateToken(ctx context.Context, token string) bool

	// InitiateUpload reserves an upload slot for a user file and returns the
	// one-shot upload session.
	InitiateUpload(ctx context.Context, token, name string, size int, contentType string) (*domain.UploadSession, error)

	// FinalizeUpload posts the file bytes to the session's upload URL,
	// replaying the session params verbatim.
	FinalizeUpload(ctx context.Context, session *domain.UploadSession, name string, data []byte) (*domain.UploadedFile, error)

	// ListAvatarOptions returns the user's selectable avatar entries.
	ListAvatarOptions(ctx context.Context, token string) ([]domain.AvatarOption, error)

	// SetAvatar links the referenced file as the user's profile picture.
	SetAvatar(ctx context.Context, token string, ref domain.AvatarReference) error
}

// TokenValidator is the narrow slice of CanvasProvider needed by route
// guards.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) bool
}

// ImageSource fetches the caller-supplied source image into memory.
type ImageSource interface {
	Fetch(ctx context.Context, url string) (*domain.SourceImage, error)
}
