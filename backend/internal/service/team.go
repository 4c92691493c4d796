package service

import (
	"context"
	"sync"
	"time"

	"github.com/taskboard-dev/taskboard/shared/domain"
	"github.com/taskboard-dev/taskboard/shared/logger"
)

type TeamStorage interface {
	TeamMembers(ctx context.Context) ([]domain.UserId, error)
}

// TeamCache keeps the team roster in memory. It is replaced wholesale on every
// refresh, so a removed member loses access at the next tick.
type TeamCache struct {
	storage TeamStorage
	members map[domain.UserId]bool
	mu      sync.RWMutex
}

func NewTeamCache(storage TeamStorage) *TeamCache {
	return &TeamCache{
		storage: storage,
		members: make(map[domain.UserId]bool),
	}
}

func (t *TeamCache) Update(ctx context.Context) error {
	userIds, err := t.storage.TeamMembers(ctx)
	if err != nil {
		return err
	}

	members := make(map[domain.UserId]bool, len(userIds))
	for _, id := range userIds {
		members[id] = true
	}

	t.mu.Lock()
	t.members = members
	t.mu.Unlock()

	logger.Log.Debug("team directory updated", "component", "team_directory", "members", len(members))
	return nil
}

func (t *TeamCache) IsMember(userId domain.UserId) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.members[userId]
}

func (t *TeamCache) StartBackgroundUpdate(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started team directory background updates",
		"component", "team_directory",
		"interval", interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := t.Update(ctx); err != nil {
					logger.Log.Error("team directory update failed",
						"component", "team_directory",
						"error", err)
				}
			case <-ctx.Done():
				logger.Log.Info("team directory shutting down gracefully",
					"component", "team_directory")
				return
			}
		}
	}()
}
