package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/honganh1206/guideme/inference"
	"github.com/honganh1206/guideme/server/data"
	"github.com/honganh1206/guideme/server/db"
	"github.com/rs/zerolog"
)

type Config struct {
	// DataDir holds guideme.db (users) and sessions.db (sessions).
	DataDir string
	Model   inference.Model
	Logger  zerolog.Logger
}

type server struct {
	models *data.Models
	model  inference.Model
	logger zerolog.Logger
}

// NewHandler wires the backend routes around models. A nil model falls back
// to the demo replies.
func NewHandler(models *data.Models, model inference.Model, logger zerolog.Logger) http.Handler {
	if model == nil {
		model = inference.Demo{}
	}

	srv := &server{
		models: models,
		model:  model,
		logger: logger.With().Str("component", "server").Logger(),
	}

	return srv.routes()
}

// Serve opens the stores under cfg.DataDir and serves the backend on ln
// until ctx is cancelled.
func Serve(ctx context.Context, ln net.Listener, cfg Config) error {
	sqlDB, err := db.OpenDB(db.DefaultConfig(filepath.Join(cfg.DataDir, "guideme.db")), data.UserSchema)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer sqlDB.Close()

	sessions, err := data.OpenSessionStore(filepath.Join(cfg.DataDir, "sessions.db"))
	if err != nil {
		return err
	}
	defer sessions.Close()

	handler := NewHandler(data.NewModels(sqlDB, sessions), cfg.Model, cfg.Logger)

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			cfg.Logger.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	cfg.Logger.Info().Str("addr", ln.Addr().String()).Str("data_dir", cfg.DataDir).Msg("serving guideme backend")

	err = httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}
