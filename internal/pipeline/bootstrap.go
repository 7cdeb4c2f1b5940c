// Package pipeline wires the loader, cleaner, tagger, scorer, summary and
// charts into the runs the command-line tools expose.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"headline-sentiment/internal/logger"
	"headline-sentiment/internal/store"
)

// Bootstrap loads .env, initializes logging and tracing, and returns a
// context tagged with a fresh run id.
func Bootstrap(ctx context.Context) (context.Context, error) {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return ctx, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.WithRunID(ctx, uuid.NewString()), nil
}

// Shutdown flushes pending spans.
func Shutdown(ctx context.Context) {
	if err := logger.Shutdown(ctx); err != nil {
		logger.Warn(ctx, "Failed to flush traces", "error", err)
	}
}

// LoadConfig reads path and logs failures.
func LoadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}
