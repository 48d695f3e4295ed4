package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/mattear/canvas-avatar/internal/service"
)

func newAuthApp(canvas *fakeCanvas) *fiber.App {
	app := fiber.New()
	NewAuthHandler(service.NewAuthService(canvas), CookieConfig{MaxAge: 3600, SameSite: "Lax"}).Register(app)
	return app
}

func TestLoginRedirectsToAuthorizationURL(t *testing.T) {
	canvas := &fakeCanvas{authURL: "https://canvas.example.com/login/oauth2/auth?client_id=c"}
	app := newAuthApp(canvas)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusFound)
	}
	if loc := resp.Header.Get("Location"); loc != canvas.authURL {
		t.Fatalf("Location = %q, want %q", loc, canvas.authURL)
	}
}

func TestCallbackWithoutCodeIsClientError(t *testing.T) {
	canvas := &fakeCanvas{}
	app := newAuthApp(canvas)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login/oauth2", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	if canvas.exchangeCalled {
		t.Fatal("exchange performed without an authorization code")
	}
}

func TestCallbackSetsCookieAndRedirectsToApp(t *testing.T) {
	canvas := &fakeCanvas{accessToken: "tok1"}
	app := newAuthApp(canvas)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login/oauth2?code=abc123", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if canvas.exchangeCode != "abc123" {
		t.Fatalf("exchanged code = %q, want abc123", canvas.exchangeCode)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusFound)
	}
	if loc := resp.Header.Get("Location"); loc != "/app" {
		t.Fatalf("Location = %q, want /app", loc)
	}

	var session *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" {
			session = cookie
		}
	}
	if session == nil {
		t.Fatal("token cookie not set")
	}
	if session.Value != "tok1" {
		t.Fatalf("cookie value = %q, want the provider access_token", session.Value)
	}
	if !session.HttpOnly || !session.Secure {
		t.Fatalf("cookie flags HttpOnly=%v Secure=%v, want both true", session.HttpOnly, session.Secure)
	}
	if session.MaxAge != 3600 {
		t.Fatalf("cookie MaxAge = %d, want 3600", session.MaxAge)
	}
}

func TestCallbackExchangeFailure(t *testing.T) {
	canvas := &fakeCanvas{exchangeErr: errors.New("token exchange failed (400)")}
	app := newAuthApp(canvas)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login/oauth2?code=expired", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == "" {
		t.Fatal("error payload missing message")
	}
}

func TestCheckAuthReportsCookiePresenceOnly(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		want   bool
	}{
		{name: "no cookie", cookie: "", want: false},
		{name: "cookie present", cookie: "tok1", want: true},
		{name: "stale cookie still counts", cookie: "long-revoked", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newAuthApp(&fakeCanvas{})

			req := httptest.NewRequest(http.MethodGet, "/api/check-auth", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			var body struct {
				Authorized bool `json:"authorized"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Authorized != tt.want {
				t.Fatalf("authorized = %v, want %v", body.Authorized, tt.want)
			}
		})
	}
}
