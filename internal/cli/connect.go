package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/JonMunkholm/dashboard/internal/cache"
	"github.com/JonMunkholm/dashboard/internal/config"
	"github.com/JonMunkholm/dashboard/internal/core"
	"github.com/JonMunkholm/dashboard/internal/database"
	"github.com/JonMunkholm/dashboard/internal/logging"
	"github.com/joho/godotenv"
)

// ConnectFromEnv builds a Backend from the environment and an optional
// .env file, the same way the server does. Logs go to stderr so they do
// not mix with command output.
func ConnectFromEnv(ctx context.Context) (*Backend, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	pool, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	// A write the server's cache never hears about would leave it serving
	// the old listing, so writes are refused unless the cache is shared.
	pages, shareErr := cache.OpenShared(ctx, cfg.Cache)
	if shareErr != nil {
		logger.Warn("invoice writes disabled", "error", shareErr)
	}

	store := core.NewPostgresStore(pool)
	return &Backend{
		Store:   store,
		Actions: core.NewActions(store, pages, core.WithLogger(logger)),
		Close: func() {
			pages.Close()
			pool.Close()
		},
		ReadOnly: shareErr,
	}, nil
}
