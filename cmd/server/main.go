package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/anonto42/nano-social/backend/internal/auth"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/router"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/anonto42/nano-social/backend/pkg/firebase"
	pkglog "github.com/anonto42/nano-social/backend/pkg/log"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	pkglog.Init(pkglog.Config{
		Level:       cfg.LogLevel,
		Pretty:      cfg.LogPretty,
		ServiceName: "nano-social-api",
	})
	l := pkglog.L()

	if cfg.UsesDefaultSecret() && cfg.Env == "production" {
		l.Warn().Msg("JWT_SECRET is not set; tokens are signed with the built-in default")
	}

	ctx := context.Background()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.CloseDB()

	repo, err := newSnapshotRepository(cfg, db)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to initialize snapshot repository")
	}

	s := store.New(repo, store.WithPasswordHasher(func(pw string) (string, error) {
		return auth.HashPassword(pw, cfg.BcryptCost)
	}))
	if err := s.Open(ctx); err != nil {
		l.Fatal().Err(err).Msg("failed to open store")
	}
	l.Info().Int("users", s.UserCount()).Msg("store opened")

	deps := router.Dependencies{
		Store:        s,
		Tokens:       auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
		BcryptCost:   cfg.BcryptCost,
		ExposeErrors: cfg.IsDevelopment(),
	}

	// Firebase is optional
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			l.Fatal().Err(err).Msg("failed to initialize firebase")
		}
		deps.Firebase = firebaseApp
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	config.SetupMiddleware(e, cfg, l)
	router.SetupRoutes(e, deps)

	go func() {
		l.Info().Str("port", cfg.Port).Str("driver", cfg.StoreDriver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	l.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("server forced to shutdown")
	}

	// Last full write; also retries a flush that failed during the run.
	if err := s.Save(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("failed to save store on shutdown")
	}

	l.Info().Msg("server exited")
}

func newSnapshotRepository(cfg *config.Config, db *config.DB) (repositories.SnapshotRepository, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return repositories.NewPostgresSnapshotRepository(db.Postgres)
	case config.DriverMongo:
		return repositories.NewMongoSnapshotRepository(db.Mongo.Database(cfg.MongoDatabase)), nil
	default:
		return repositories.NewFileSnapshotRepository(cfg.DataDir), nil
	}
}
