package service

import (
	"context"
	"time"

	"github.com/nstepanov/bookvault/internal/logging"
	"github.com/nstepanov/bookvault/internal/store"
)

// BlacklistSweeper prunes deny-list rows whose access tokens have
// already expired on their own. Without it the blacklist grows forever.
type BlacklistSweeper struct {
	Store     *store.GormStore
	AccessTTL time.Duration
	Interval  time.Duration
}

func NewBlacklistSweeper(s *store.GormStore, accessTTL time.Duration) *BlacklistSweeper {
	return &BlacklistSweeper{
		Store:     s,
		AccessTTL: accessTTL,
		Interval:  time.Hour,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (w *BlacklistSweeper) Run(ctx context.Context) {
	l := logging.FromContext(ctx).With("component", "blacklist_sweeper")
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := w.SweepOnce(ctx); err != nil {
				l.Error("sweep failed", "error", err)
			} else if n > 0 {
				l.Info("sweep completed", "removed", n)
			}
		}
	}
}

// SweepOnce removes rows older than the access-token TTL. A row that old
// backs a token that can no longer pass verification anyway.
func (w *BlacklistSweeper) SweepOnce(ctx context.Context) (int64, error) {
	return w.Store.DeleteExpiredBlacklist(ctx, time.Now().Add(-w.AccessTTL))
}
