package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/mattear/canvas-avatar/internal/adapter/canvas"
	"github.com/mattear/canvas-avatar/internal/adapter/image"
	"github.com/mattear/canvas-avatar/internal/adapter/store"
	"github.com/mattear/canvas-avatar/internal/handler"
	"github.com/mattear/canvas-avatar/internal/middleware"
	"github.com/mattear/canvas-avatar/internal/service"
	"github.com/mattear/canvas-avatar/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("starting canvas avatar service",
		"port", cfg.Port,
		"canvas_base_url", cfg.CanvasBaseURL,
		"audit_enabled", cfg.DatabaseURL != "",
	)

	timeout := time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	// ── Adapters ─────────────────────────────────────────────────────────
	canvasClient := canvas.NewClient(
		cfg.CanvasBaseURL,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.RedirectURI,
		cfg.Scopes,
		timeout,
	)
	imageFetcher := image.NewFetcher(timeout)

	// ── Services ─────────────────────────────────────────────────────────
	authService := service.NewAuthService(canvasClient)
	avatarService := service.NewAvatarService(canvasClient, imageFetcher)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowCredentials: true,
	}))

	// Audit store is optional; requests are recorded only when configured.
	if cfg.DatabaseURL != "" {
		auditStore, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to audit database", "error", err)
			os.Exit(1)
		}
		defer auditStore.Close()

		app.Use(middleware.AuditMiddleware(auditStore))
		handler.NewAuditHandler(auditStore).Register(app)
	}

	// ── Routes ───────────────────────────────────────────────────────────
	authHandler := handler.NewAuthHandler(authService, handler.CookieConfig{
		MaxAge:   cfg.CookieMaxAge,
		SameSite: cfg.CookieSameSite,
	})
	authHandler.Register(app)

	avatarHandler := handler.NewAvatarHandler(avatarService, canvasClient)
	avatarHandler.Register(app)

	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
		})
	})

	// Application shell
	shell := filepath.Join(cfg.PublicDir, "index.html")
	app.Get("/", func(c fiber.Ctx) error {
		return c.SendFile(shell)
	})
	app.Get("/auth-success.html", func(c fiber.Ctx) error {
		return c.SendFile(filepath.Join(cfg.PublicDir, "auth-success.html"))
	})
	app.Get("/app", middleware.RequireSession(canvasClient), func(c fiber.Ctx) error {
		return c.SendFile(shell)
	})

	// ── Start ────────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("listening", "port", cfg.Port)
	if err := app.Listen(":"+cfg.Port, fiber.ListenConfig{GracefulContext: ctx}); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
