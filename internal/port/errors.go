package port

import "errors"

// Sentinel errors used across ports. Each pipeline step maps to exactly one
// kind; callers classify with errors.Is.
var (
	ErrMissingCode        = errors.New("authorization code is missing")
	ErrTokenExchange      = errors.New("token exchange failed")
	ErrUnauthorized       = errors.New("access token invalid or revoked")
	ErrImageFetch         = errors.New("image fetch failed")
	ErrUploadInitiation   = errors.New("upload initiation failed")
	ErrUploadFinalization = errors.New("upload finalization failed")
	ErrAvatarNotFound     = errors.New("uploaded file not found among avatar options")
	ErrAvatarLink         = errors.New("avatar link failed")
	ErrUnexpectedResponse = errors.New("unexpected provider response")
)
