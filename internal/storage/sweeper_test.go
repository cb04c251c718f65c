package storage

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeper_Run(t *testing.T) {
	// A clock permanently 25h ahead makes every upload expired from the
	// sweeper's point of view without mutating shared state.
	store := newTestStore(t, WithClock(func() time.Time {
		return time.Now().Add(25 * time.Hour)
	}))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	_, err := store.Save(context.Background(), strings.NewReader("data"), "video/mp4", "clip.mp4")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := NewSweeper(store, 10*time.Millisecond, logger)
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		entries, err := os.ReadDir(store.Dir())
		return err == nil && len(entries) == 0
	}, 2*time.Second, 10*time.Millisecond, "sweeper should remove the expired file")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}
