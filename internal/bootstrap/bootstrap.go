// Package bootstrap provides dependency initialization for the video
// upload service.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/Nrfhsa/Video-To-URL/internal/auth"
	"github.com/Nrfhsa/Video-To-URL/internal/config"
	"github.com/Nrfhsa/Video-To-URL/internal/storage"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	Store   *storage.DiskStore
	Sweeper *storage.Sweeper
	Gate    *auth.Gate
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := storage.NewDiskStore(cfg.UploadDir, cfg.MaxUploadSize, cfg.RetentionWindow, logger)
	if err != nil {
		return nil, fmt.Errorf("create disk store: %w", err)
	}
	logger.Info("upload directory initialized",
		slog.String("dir", store.Dir()),
	)

	if cfg.APIKey == "" {
		logger.Warn("API_KEY is not set; listing and deletion endpoints will reject every request")
	}

	return &Dependencies{
		Store:   store,
		Sweeper: storage.NewSweeper(store, cfg.SweepInterval, logger),
		Gate:    auth.NewGate(cfg.APIKey),
	}, nil
}
