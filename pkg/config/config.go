package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server
	Port    string
	AppName string

	// Canvas OAuth2
	CanvasBaseURL string
	ClientID      string
	ClientSecret  string
	RedirectURI   string
	Scopes        []string // empty unless the Canvas instance enforces scopes

	// Session cookie
	CookieMaxAge   int // seconds
	CookieSameSite string

	// Audit store (optional; audit logging is disabled when empty)
	DatabaseURL string

	// Outbound HTTP
	HTTPTimeoutSeconds int

	// Frontend
	FrontendURL string
	PublicDir   string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envOrDefault("PORT", "3000"),
		AppName: envOrDefault("APP_NAME", "Canvas Avatar"),

		CanvasBaseURL: strings.TrimRight(os.Getenv("CANVAS_BASE_URL"), "/"),
		ClientID:      os.Getenv("CLIENT_ID"),
		ClientSecret:  os.Getenv("CLIENT_SECRET"),
		RedirectURI:   os.Getenv("REDIRECT_URI"),
		Scopes:        parseScopes(os.Getenv("CANVAS_SCOPES")),

		CookieMaxAge:   envOrDefaultInt("COOKIE_MAX_AGE_SECONDS", 3600),
		CookieSameSite: envOrDefault("COOKIE_SAMESITE", "Lax"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		HTTPTimeoutSeconds: envOrDefaultInt("HTTP_TIMEOUT_SECONDS", 30),

		FrontendURL: envOrDefault("FRONTEND_URL", "http://localhost:3000"),
		PublicDir:   envOrDefault("PUBLIC_DIR", "./public"),
	}
}

// Validate checks that the Canvas OAuth settings required for every flow are
// present. REDIRECT_URI must exactly match the value registered with the
// provider.
func (c *Config) Validate() error {
	missing := []string{}
	if c.CanvasBaseURL == "" {
		missing = append(missing, "CANVAS_BASE_URL")
	}
	if c.ClientID == "" {
		missing = append(missing, "CLIENT_ID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "CLIENT_SECRET")
	}
	if c.RedirectURI == "" {
		missing = append(missing, "REDIRECT_URI")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// parseScopes splits a space- or comma-separated scope list, dropping empties.
func parseScopes(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == ','
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return fallback
}
