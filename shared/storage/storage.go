package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/taskboard-dev/taskboard/shared/config"
	"github.com/taskboard-dev/taskboard/shared/domain"
	"github.com/taskboard-dev/taskboard/shared/session"
	"github.com/taskboard-dev/taskboard/shared/storage/pg"
)

// Storage covers the identity side tables: revoked sessions and the team roster.
// It is shared by the API server and the developer tools.
type Storage struct {
	db *sql.DB
}

var _ session.RevocationStorage = (*Storage)(nil)

// New connects with the lightweight pool settings.
func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	db, err := pg.Connect(ctx, cfg.Private.Pg, pg.LightweightConnectionConfig())
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

func (s *Storage) RecentlyRevokedSessions(ctx context.Context, since time.Time) ([]domain.SessionId, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id
		FROM revoked_sessions
		WHERE revoked_at >= $1
		ORDER BY revoked_at DESC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query revoked sessions: %w", err)
	}
	defer rows.Close()

	var ids []domain.SessionId
	for rows.Next() {
		var id domain.SessionId
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan revoked session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revoked sessions: %w", err)
	}
	return ids, nil
}

// RevokeSession is idempotent.
func (s *Storage) RevokeSession(ctx context.Context, userId domain.UserId, sessionId domain.SessionId) error {
	return pg.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO revoked_sessions (session_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (session_id) DO NOTHING`,
			sessionId, userId)
		if err != nil {
			return fmt.Errorf("failed to revoke session: %w", err)
		}
		return nil
	})
}

// PruneRevokedSessions deletes revocations older than before and reports how many went.
func (s *Storage) PruneRevokedSessions(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM revoked_sessions WHERE revoked_at < $1", before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune revoked sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned sessions: %w", err)
	}
	return n, nil
}

// AddTeamMember enrolls a user in the team that can read team projects.
func (s *Storage) AddTeamMember(ctx context.Context, userId domain.UserId) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO team_members (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING",
		userId)
	if err != nil {
		return fmt.Errorf("failed to add team member: %w", err)
	}
	return nil
}

// Cleanup closes the database connection pool.
func (s *Storage) Cleanup() {
	if s.db != nil {
		s.db.Close()
	}
}
