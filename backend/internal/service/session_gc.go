package service

import (
	"context"
	"sync"
	"time"

	"github.com/taskboard-dev/taskboard/shared/logger"
)

// SessionCollector deletes revocation records whose tokens have expired anyway.
type SessionCollector struct {
	storage    SessionGCStorage
	sessionTTL time.Duration
	now        func() time.Time

	mu        sync.Mutex
	lastStats CleanupStats
}

// CleanupStats describes the last collection run.
type CleanupStats struct {
	RunAt      time.Time
	Cutoff     time.Time
	Pruned     int64
	DurationMs int64
}

type SessionGCStorage interface {
	PruneRevokedSessions(ctx context.Context, before time.Time) (int64, error)
}

func NewSessionCollector(storage SessionGCStorage, sessionTTL time.Duration) *SessionCollector {
	return &SessionCollector{storage: storage, sessionTTL: sessionTTL, now: time.Now}
}

func (gc *SessionCollector) StartBackgroundCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started revoked session cleanup",
		"component", "session_gc",
		"interval", interval,
		"session_ttl", gc.sessionTTL)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gc.RunCleanup(ctx); err != nil {
					logger.Log.Error("revoked session cleanup failed", "component", "session_gc", "error", err)
					continue
				}
				stats := gc.LastCleanupStats()
				logger.Log.Info("revoked session cleanup completed",
					"component", "session_gc",
					"pruned", stats.Pruned,
					"cutoff", stats.Cutoff.Format(time.RFC3339),
					"duration_ms", stats.DurationMs)
			case <-ctx.Done():
				logger.Log.Info("revoked session cleanup shutting down gracefully", "component", "session_gc")
				return
			}
		}
	}()
}

// RunCleanup runs one collection cycle. The cutoff keeps the same margin the
// revocation cache reads with, so nothing it still needs is removed.
func (gc *SessionCollector) RunCleanup(ctx context.Context) error {
	start := gc.now()
	cutoff := start.Add(-time.Duration(float64(gc.sessionTTL) * 1.1))

	pruned, err := gc.storage.PruneRevokedSessions(ctx, cutoff)
	if err != nil {
		return err
	}

	gc.mu.Lock()
	gc.lastStats = CleanupStats{
		RunAt:      start,
		Cutoff:     cutoff,
		Pruned:     pruned,
		DurationMs: time.Since(start).Milliseconds(),
	}
	gc.mu.Unlock()
	return nil
}

func (gc *SessionCollector) LastCleanupStats() CleanupStats {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.lastStats
}
