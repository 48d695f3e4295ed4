package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mattear/canvas-avatar/internal/domain"
	"github.com/mattear/canvas-avatar/internal/port"
)

const (
	authPath        = "/login/oauth2/auth"
	tokenPath       = "/login/oauth2/token"
	selfPath        = "/api/v1/users/self"
	userFilesPath   = "/api/v1/users/self/files"
	avatarListPath  = "/api/v1/users/self/avatars"
	profileFolder   = "profile pictures"
	fileFormField   = "file"
	defaultMimeType = "image/png"
)

// Client implements port.CanvasProvider against a Canvas-style LMS REST API.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	redirectURI  string
	scopes       []string
	httpClient   *http.Client
}

// NewClient creates a new Canvas API client. baseURL is the provider origin
// without a trailing slash.
func NewClient(baseURL, clientID, clientSecret, redirectURI string, scopes []string, timeout time.Duration) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		scopes:       scopes,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// AuthCodeURL returns the Canvas OAuth2 authorization URL. REDIRECT_URI must
// exactly match the value registered with the provider.
func (c *Client) AuthCodeURL() string {
	params := url.Values{
		"client_id":     {c.clientID},
		"response_type": {"code"},
		"redirect_uri":  {c.redirectURI},
	}
	if len(c.scopes) > 0 {
		params.Set("scope", strings.Join(c.scopes, " "))
	}
	return fmt.Sprintf("%s%s?%s", c.baseURL, authPath, params.Encode())
}

// ExchangeCode exchanges an authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*domain.TokenResponse, error) {
	data := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"code":          {code},
		"redirect_uri":  {c.redirectURI},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("canvas: create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("canvas: %w: %v", port.ErrTokenExchange, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("canvas: %w (%d): %s", port.ErrTokenExchange, resp.StatusCode, string(body))
	}

	var tokenResp domain.TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("canvas: decode token response: %w", port.ErrUnexpectedResponse)
	}
	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("canvas: %w: response missing access_token: %s", port.ErrTokenExchange, string(body))
	}

	return &tokenResp, nil
}

// ValidateToken reports whether the LMS still accepts the token. Any
// transport failure reports false; ambiguity must never grant access.
func (c *Client) ValidateToken(ctx context.Context, token string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+selfPath, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("canvas: token validation failed", "error", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// InitiateUpload reserves an upload slot under the user's profile pictures
// folder and returns the one-shot upload session.
func (c *Client) InitiateUpload(ctx context.Context, token, name string, size int, contentType string) (*domain.UploadSession, error) {
	if contentType == "" {
		contentType = defaultMimeType
	}
	payload, err := json.Marshal(map[string]any{
		"name":               name,
		"size":               size,
		"content_type":       contentType,
		"parent_folder_path": profileFolder,
	})
	if err != nil {
		return nil, fmt.Errorf("canvas: encode upload descriptor: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+userFilesPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("canvas: create initiate request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("canvas: %w: %v", port.ErrUploadInitiation, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("canvas: %w (%d): %s", port.ErrUploadInitiation, resp.StatusCode, string(body))
	}

	var session domain.UploadSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("canvas: decode initiate response: %w", port.ErrUnexpectedResponse)
	}
	if session.UploadURL == "" {
		return nil, fmt.Errorf("canvas: %w: response missing upload_url: %s", port.ErrUploadInitiation, string(body))
	}

	return &session, nil
}

// FinalizeUpload posts the file bytes to the session's upload URL. The
// session params go into the form first, verbatim, then the file field —
// Canvas rejects forms with fields after the file.
func (c *Client) FinalizeUpload(ctx context.Context, session *domain.UploadSession, name string, data []byte) (*domain.UploadedFile, error) {
	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	for key, value := range session.Params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("canvas: write upload param: %w", err)
		}
	}
	part, err := writer.CreateFormFile(fileFormField, name)
	if err != nil {
		return nil, fmt.Errorf("canvas: create file field: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("canvas: write file bytes: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("canvas: close upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, session.UploadURL, &form)
	if err != nil {
		return nil, fmt.Errorf("canvas: create finalize request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("canvas: %w: %v", port.ErrUploadFinalization, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("canvas: %w (%d): %s", port.ErrUploadFinalization, resp.StatusCode, string(body))
	}

	var file domain.UploadedFile
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, fmt.Errorf("canvas: decode finalize response: %w", port.ErrUnexpectedResponse)
	}
	if file.ID == 0 && file.URL == "" {
		return nil, fmt.Errorf("canvas: %w: response has neither url nor id: %s", port.ErrUploadFinalization, string(body))
	}

	return &file, nil
}

// ListAvatarOptions returns the user's selectable avatar entries.
func (c *Client) ListAvatarOptions(ctx context.Context, token string) ([]domain.AvatarOption, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+avatarListPath, nil)
	if err != nil {
		return nil, fmt.Errorf("canvas: create avatar list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("canvas: %w: %v", port.ErrAvatarLink, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("canvas: %w (%d): %s", port.ErrAvatarLink, resp.StatusCode, string(body))
	}

	var options []domain.AvatarOption
	if err := json.Unmarshal(body, &options); err != nil {
		return nil, fmt.Errorf("canvas: decode avatar options: %w", port.ErrUnexpectedResponse)
	}

	return options, nil
}

// SetAvatar links the referenced file as the user's profile picture.
func (c *Client) SetAvatar(ctx context.Context, token string, ref domain.AvatarReference) error {
	avatar := map[string]string{}
	if ref.URL != "" {
		avatar["url"] = ref.URL
	} else {
		avatar["token"] = ref.Token
	}
	payload, err := json.Marshal(map[string]any{
		"user": map[string]any{"avatar": avatar},
	})
	if err != nil {
		return fmt.Errorf("canvas: encode avatar update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+selfPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("canvas: create avatar update request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("canvas: %w: %v", port.ErrAvatarLink, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("canvas: %w (%d): %s", port.ErrAvatarLink, resp.StatusCode, string(body))
	}
	io.Copy(io.Discard, resp.Body)

	return nil
}
