package storage

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically purges expired files from a DiskStore. It runs
// for the process lifetime, independent of request traffic, so files
// expire even when the server sees no requests.
type Sweeper struct {
	store    *DiskStore
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper creates a Sweeper that purges the store every interval.
func NewSweeper(store *DiskStore, interval time.Duration, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps on a fixed ticker until ctx is cancelled. It is started
// once at process start; a sweep in flight when the context is
// cancelled finishes best-effort.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.logger.Info("initiating scheduled cleanup")
			count, err := s.store.PurgeExpired(ctx)
			if err != nil {
				s.logger.Error("scheduled cleanup failed",
					slog.String("error", err.Error()),
				)
				continue
			}
			if count > 0 {
				s.logger.Info("scheduled cleanup finished",
					slog.Int("files_removed", count),
				)
			}
		}
	}
}
