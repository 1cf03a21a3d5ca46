package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/binweave/pageapi/pkg/pageapi/api"
	"github.com/binweave/pageapi/pkg/pageapi/auth"
	"github.com/binweave/pageapi/pkg/pageapi/config"
)

type EnvConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	RequireAuth bool   `env:"REQUIRE_AUTH" env-default:"false"`
	APIToken    string `env:"API_TOKEN" env-default:""`

	DefaultFolder       string `env:"DEFAULT_FOLDER" env-default:"blog"`
	AllowImageUpload    bool   `env:"ALLOW_IMAGE_UPLOAD" env-default:"true"`
	AllowFolderCreation bool   `env:"ALLOW_FOLDER_CREATION" env-default:"true"`
	PublicBase          string `env:"PUBLIC_BASE" env-default:"/pages"`

	StorageURL  string `env:"STORAGE_URL" env-default:"file://./data/pages"`
	PagesDir    string `env:"PAGES_DIR" env-default:""`
	DatabaseURL string `env:"DATABASE_URL" env-default:""`

	MaxRequestBytes int64 `env:"MAX_REQUEST_BYTES" env-default:"16777216"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var env EnvConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	cfg, err := config.Load(env.apply)
	if err != nil {
		slog.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	svc, err := cfg.BuildService(ctx)
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	handler := api.NewHandler(svc, auth.New(cfg.APIToken), api.Config{
		RequireAuth:      cfg.RequireAuth,
		AllowImageUpload: cfg.AllowImageUpload,
	})

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(api.RequestIDMiddleware)
	r.Use(api.RequestLogger(logger))
	r.Use(api.RecoveryMiddleware)
	r.Use(api.RequestSizeLimit(env.MaxRequestBytes))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, http.StatusText(http.StatusOK))
	})
	r.Mount("/", handler.Routes())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "storage", cfg.StorageType)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "err", err)
			os.Exit(1)
		}
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "err", err)
			os.Exit(1)
		}
	}
}

// apply copies the flat environment struct onto the service configuration.
func (e EnvConfig) apply(cfg *config.ServerConfig) error {
	cfg.Port = e.Port
	cfg.Environment = e.Environment
	cfg.RequireAuth = e.RequireAuth
	cfg.APIToken = e.APIToken
	cfg.DefaultFolder = e.DefaultFolder
	cfg.AllowImageUpload = e.AllowImageUpload
	cfg.AllowFolderCreation = e.AllowFolderCreation
	cfg.PublicBase = e.PublicBase
	cfg.DatabaseURL = e.DatabaseURL
	if err := config.ApplyStorageURL(cfg, e.StorageURL); err != nil {
		return err
	}
	if e.PagesDir != "" {
		cfg.StorageType = "fs"
		cfg.PagesDir = e.PagesDir
	}
	return nil
}
