package domain

import "time"

// Credential is the opaque bearer token issued by the LMS OAuth provider.
// It lives in the client's cookie; the server never stores it.
type Credential string

// Empty reports whether no token is present.
func (c Credential) Empty() bool {
	return c == ""
}

// TokenResponse holds the OAuth2 token endpoint response after code exchange.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// SourceImage is a fetched image held in memory for the duration of one
// upload invocation.
type SourceImage struct {
	Data        []byte
	ContentType string
}

// UploadSession is the short-lived capability returned by the initiate-upload
// call. Params must be replayed verbatim in the finalize form, before the
// file field. Valid for exactly one finalize call.
type UploadSession struct {
	UploadURL string            `json:"upload_url"`
	Params    map[string]string `json:"upload_params"`
}

// UploadedFile is the LMS descriptor for a newly stored file. At least one of
// URL and ID is set on success.
type UploadedFile struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// AvatarOption is one entry of the user's avatar options list.
type AvatarOption struct {
	ID          int64  `json:"id"`
	Token       string `json:"token"`
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
}

// AvatarReference designates the uploaded file to link as the profile
// picture, either by direct file URL or by avatar token. Exactly one field
// is set.
type AvatarReference struct {
	URL   string
	Token string
}

// AvatarByURL builds a direct-URL reference.
func AvatarByURL(url string) AvatarReference {
	return AvatarReference{URL: url}
}

// AvatarByToken builds a token-lookup reference.
func AvatarByToken(token string) AvatarReference {
	return AvatarReference{Token: token}
}

// AuditLog is one recorded request, used by the optional audit store.
type AuditLog struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	Details   string    `json:"details"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
