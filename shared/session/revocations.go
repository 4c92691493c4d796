// Package session tracks sessions that were ended before their token expired.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/taskboard-dev/taskboard/shared/domain"
	"github.com/taskboard-dev/taskboard/shared/logger"
)

// RevocationStorage is the read side the cache needs. Writes happen on logout.
type RevocationStorage interface {
	RecentlyRevokedSessions(ctx context.Context, since time.Time) ([]domain.SessionId, error)
}

type Revocations struct {
	storage    RevocationStorage
	revoked    map[domain.SessionId]bool
	mu         sync.RWMutex
	sessionTTL time.Duration
}

func NewRevocations(storage RevocationStorage, sessionTTL time.Duration) *Revocations {
	return &Revocations{
		storage:    storage,
		revoked:    make(map[domain.SessionId]bool),
		sessionTTL: sessionTTL,
	}
}

// Update reloads sessions revoked within the last session TTL plus 10%.
// Anything older belongs to a token that has expired anyway.
func (r *Revocations) Update(ctx context.Context) error {
	since := time.Now().Add(-time.Duration(float64(r.sessionTTL) * 1.1))

	ids, err := r.storage.RecentlyRevokedSessions(ctx, since)
	if err != nil {
		return err
	}

	revoked := make(map[domain.SessionId]bool, len(ids))
	for _, id := range ids {
		revoked[id] = true
	}

	r.mu.Lock()
	r.revoked = revoked
	r.mu.Unlock()

	logger.Log.Debug("session revocations updated",
		"component", "session_revocations",
		"entries", len(revoked),
		"since", since.Format(time.RFC3339))
	return nil
}

// Revoke marks a session locally so that this process rejects it before the next refresh.
func (r *Revocations) Revoke(sessionId domain.SessionId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[sessionId] = true
}

func (r *Revocations) IsRevoked(sessionId domain.SessionId) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revoked[sessionId]
}

func (r *Revocations) StartBackgroundUpdate(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started session revocation background updates",
		"component", "session_revocations",
		"interval", interval,
		"session_ttl", r.sessionTTL)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := r.Update(ctx); err != nil {
					logger.Log.Error("session revocation update failed",
						"component", "session_revocations",
						"error", err)
				}
			case <-ctx.Done():
				logger.Log.Info("session revocations shutting down gracefully",
					"component", "session_revocations")
				return
			}
		}
	}()
}
