package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mattear/canvas-avatar/internal/domain"
	"github.com/mattear/canvas-avatar/internal/port"
)

// AvatarService runs the bounded upload pipeline: validate token, fetch the
// source image, initiate and finalize the LMS upload, then link the stored
// file as the user's profile picture. Each invocation is fail-fast and
// deliberately non-idempotent: every call creates a new provider-side file.
//
// An uploaded file that cannot be linked (AvatarNotFound) stays on the
// provider; no cleanup DELETE is attempted.
type AvatarService struct {
	canvas port.CanvasProvider
	images port.ImageSource

	// now is swapped in tests to pin generated file names.
	now func() time.Time
}

// NewAvatarService creates a new avatar service.
func NewAvatarService(canvas port.CanvasProvider, images port.ImageSource) *AvatarService {
	return &AvatarService{canvas: canvas, images: images, now: time.Now}
}

// SetProfilePicture performs the five-step sequence for one image, aborting
// at the first failure. Errors wrap the port sentinel for the failed step.
func (s *AvatarService) SetProfilePicture(ctx context.Context, cred domain.Credential, imageURL string) error {
	if cred.Empty() || !s.canvas.ValidateToken(ctx, string(cred)) {
		return port.ErrUnauthorized
	}

	img, err := s.images.Fetch(ctx, imageURL)
	if err != nil {
		return fmt.Errorf("fetch source image: %w", err)
	}

	// Unique per call so repeated uploads never collide on the server.
	name := s.fileName(img.ContentType)

	session, err := s.canvas.InitiateUpload(ctx, string(cred), name, len(img.Data), img.ContentType)
	if err != nil {
		return fmt.Errorf("initiate upload: %w", err)
	}

	file, err := s.canvas.FinalizeUpload(ctx, session, name, img.Data)
	if err != nil {
		return fmt.Errorf("finalize upload: %w", err)
	}

	ref, err := s.resolveReference(ctx, cred, file)
	if err != nil {
		return err
	}

	if err := s.canvas.SetAvatar(ctx, string(cred), ref); err != nil {
		return fmt.Errorf("link avatar: %w", err)
	}

	slog.Info("profile picture updated", "file_id", file.ID, "name", name)
	return nil
}

// resolveReference picks the linking strategy from what finalize returned: a
// usable file URL links directly, otherwise the file id is matched against
// the avatar options list for its token.
func (s *AvatarService) resolveReference(ctx context.Context, cred domain.Credential, file *domain.UploadedFile) (domain.AvatarReference, error) {
	if file.URL != "" {
		return domain.AvatarByURL(file.URL), nil
	}

	options, err := s.canvas.ListAvatarOptions(ctx, string(cred))
	if err != nil {
		return domain.AvatarReference{}, fmt.Errorf("list avatar options: %w", err)
	}
	for _, opt := range options {
		if opt.ID == file.ID {
			return domain.AvatarByToken(opt.Token), nil
		}
	}

	return domain.AvatarReference{}, fmt.Errorf("file %d: %w", file.ID, port.ErrAvatarNotFound)
}

func (s *AvatarService) fileName(contentType string) string {
	ext := ".png"
	switch contentType {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	case "image/gif":
		ext = ".gif"
	case "image/webp":
		ext = ".webp"
	}
	return fmt.Sprintf("profile-%d%s", s.now().UnixNano(), ext)
}
