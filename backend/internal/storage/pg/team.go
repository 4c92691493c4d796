package pg

import (
	"context"
	"fmt"

	"github.com/taskboard-dev/taskboard/shared/domain"
)

// TeamMembers returns the whole team roster for the team directory cache.
func (s *Storage) TeamMembers(ctx context.Context) ([]domain.UserId, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT user_id FROM team_members ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query team members: %w", err)
	}
	defer rows.Close()

	var members []domain.UserId
	for rows.Next() {
		var id domain.UserId
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate team members: %w", err)
	}
	return members, nil
}
