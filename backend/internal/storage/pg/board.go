package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/taskboard-dev/taskboard/backend/internal/service"
	"github.com/taskboard-dev/taskboard/shared/domain"
	internal_errors "github.com/taskboard-dev/taskboard/shared/errors"
	shared_pg "github.com/taskboard-dev/taskboard/shared/storage/pg"
)

// boardQueries is bound to one transaction and one request context.
type boardQueries struct {
	ctx context.Context
	q   shared_pg.Querier
}

var _ service.BoardQueries = (*boardQueries)(nil)

// =========================================================================
// Projects
// =========================================================================

func (b *boardQueries) Project(id domain.ProjectId) (domain.Project, error) {
	row := b.q.QueryRowContext(b.ctx, "SELECT "+projectFields+" FROM projects p WHERE p.id = $1", id)
	project, err := scanProject(row)
	return project, classify(err, "Project not found")
}

func (b *boardQueries) LockProject(id domain.ProjectId) (domain.Project, error) {
	row := b.q.QueryRowContext(b.ctx, "SELECT "+projectFields+" FROM projects p WHERE p.id = $1 FOR UPDATE", id)
	project, err := scanProject(row)
	return project, classify(err, "Project not found")
}

func (b *boardQueries) MemberRole(projectId domain.ProjectId, userId domain.UserId) (domain.Role, error) {
	var role string
	err := b.q.QueryRowContext(b.ctx,
		"SELECT role FROM project_members WHERE project_id = $1 AND user_id = $2",
		projectId, userId).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", classify(err, "")
	}
	if r := domain.Role(role); r == domain.RoleEditor || r == domain.RoleViewer {
		return r, nil
	}
	return "", internal_errors.Transient("", fmt.Errorf("project %s member %s has unknown role %q", projectId, userId, role))
}

func (b *boardQueries) CandidateProjects(userId domain.UserId, includeTeam bool) ([]domain.ProjectAccess, error) {
	rows, err := b.q.QueryContext(b.ctx, `
	SELECT `+projectFields+`, COALESCE(m.role, '')
	FROM projects p
	LEFT JOIN project_members m
		ON m.project_id = p.id AND m.user_id = $1
	WHERE NOT p.archived
	AND (p.owner_id = $1 OR m.user_id IS NOT NULL OR ($2 AND p.visibility = 'team'))
	ORDER BY p.created_at, p.id
	`, userId, includeTeam)
	if err != nil {
		return nil, classify(err, "")
	}
	defer rows.Close()

	var out []domain.ProjectAccess
	for rows.Next() {
		var r projectRow
		var role string
		if err := rows.Scan(append(r.dest(), &role)...); err != nil {
			return nil, classify(err, "")
		}
		project, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ProjectAccess{Project: project, Role: domain.Role(role)})
	}
	return out, classify(rows.Err(), "")
}

func (b *boardQueries) InsertProject(ownerId domain.UserId, data domain.ProjectCreationData) (domain.Project, error) {
	row := b.q.QueryRowContext(b.ctx, `
	INSERT INTO projects AS p (owner_id, name, description, visibility)
	VALUES ($1, $2, $3, $4)
	RETURNING `+projectFields,
		ownerId, data.Name, data.Description, data.Visibility)
	project, err := scanProject(row)
	return project, classify(err, "")
}

func (b *boardQueries) ArchiveProject(id domain.ProjectId) error {
	result, err := b.q.ExecContext(b.ctx, "UPDATE projects SET archived = true, updated_at = now() WHERE id = $1", id)
	return affectedOne(result, err, "Project not found")
}

func (b *boardQueries) UpsertMember(projectId domain.ProjectId, userId domain.UserId, role domain.Role) error {
	_, err := b.q.ExecContext(b.ctx, `
	INSERT INTO project_members (project_id, user_id, role)
	VALUES ($1, $2, $3)
	ON CONFLICT (project_id, user_id) DO UPDATE SET role = EXCLUDED.role
	`, projectId, userId, role)
	return classify(err, "")
}

// =========================================================================
// Columns
// =========================================================================

func (b *boardQueries) Columns(projectId domain.ProjectId) ([]domain.Column, error) {
	rows, err := b.q.QueryContext(b.ctx, `
	SELECT `+columnFields+`
	FROM board_columns c
	WHERE c.project_id = $1 AND NOT c.archived
	ORDER BY c.position, c.seq
	`, projectId)
	if err != nil {
		return nil, classify(err, "")
	}
	defer rows.Close()

	var out []domain.Column
	for rows.Next() {
		column, err := scanColumn(rows)
		if err != nil {
			return nil, classify(err, "")
		}
		out = append(out, column)
	}
	return out, classify(rows.Err(), "")
}

func (b *boardQueries) Column(id domain.ColumnId) (domain.Column, error) {
	row := b.q.QueryRowContext(b.ctx, "SELECT "+columnFields+" FROM board_columns c WHERE c.id = $1", id)
	column, err := scanColumn(row)
	return column, classify(err, "Column not found")
}

func (b *boardQueries) LastColumnPosition(projectId domain.ProjectId) (*domain.Position, error) {
	return b.maxPosition("SELECT max(position)::text FROM board_columns WHERE project_id = $1 AND NOT archived", projectId)
}

func (b *boardQueries) InsertColumn(data domain.ColumnCreationData, position domain.Position) (domain.Column, error) {
	row := b.q.QueryRowContext(b.ctx, `
	INSERT INTO board_columns AS c (project_id, title, position, hero_image_url)
	VALUES ($1, $2, $3, $4)
	RETURNING `+columnFields,
		data.ProjectId, data.Title, formatPosition(position), data.HeroImageURL)
	column, err := scanColumn(row)
	return column, classify(err, "")
}

func (b *boardQueries) SetColumnPositions(ids []domain.ColumnId, positions []domain.Position) error {
	return b.setPositions("board_columns", ids, positions)
}

func (b *boardQueries) ArchiveColumn(id domain.ColumnId) error {
	result, err := b.q.ExecContext(b.ctx, "UPDATE board_columns SET archived = true, updated_at = now() WHERE id = $1", id)
	return affectedOne(result, err, "Column not found")
}

// =========================================================================
// Cards
// =========================================================================

func (b *boardQueries) Cards(projectId domain.ProjectId) ([]domain.Card, error) {
	return b.cards(`
	SELECT `+cardFields+`
	FROM cards k
	WHERE k.project_id = $1 AND NOT k.archived AND k.parent_card_id IS NULL
	ORDER BY k.position, k.seq
	`, projectId)
}

func (b *boardQueries) ColumnCards(columnId domain.ColumnId) ([]domain.Card, error) {
	return b.cards(`
	SELECT `+cardFields+`
	FROM cards k
	WHERE k.column_id = $1 AND NOT k.archived AND k.parent_card_id IS NULL
	ORDER BY k.position, k.seq
	`, columnId)
}

func (b *boardQueries) cards(query string, args ...any) ([]domain.Card, error) {
	rows, err := b.q.QueryContext(b.ctx, query, args...)
	if err != nil {
		return nil, classify(err, "")
	}
	defer rows.Close()

	var out []domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, classify(err, "")
		}
		out = append(out, card)
	}
	return out, classify(rows.Err(), "")
}

func (b *boardQueries) Card(id domain.CardId) (domain.Card, error) {
	row := b.q.QueryRowContext(b.ctx, "SELECT "+cardFields+" FROM cards k WHERE k.id = $1", id)
	card, err := scanCard(row)
	return card, classify(err, "Card not found")
}

func (b *boardQueries) LastCardPosition(columnId domain.ColumnId) (*domain.Position, error) {
	return b.maxPosition(`
	SELECT max(position)::text FROM cards
	WHERE column_id = $1 AND NOT archived AND parent_card_id IS NULL
	`, columnId)
}

func (b *boardQueries) InsertCard(data domain.CardCreationData, position domain.Position) (domain.Card, error) {
	row := b.q.QueryRowContext(b.ctx, `
	INSERT INTO cards AS k (
		project_id, column_id, parent_card_id, title, description, status, priority,
		effort, start_date, due_date, position, created_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING `+cardFields,
		data.ProjectId, data.ColumnId, toNullUUID(data.ParentCardId), data.Title, data.Description,
		data.Status, data.Priority, data.Effort, data.StartDate, data.DueDate,
		formatPosition(position), data.CreatedBy)
	card, err := scanCard(row)
	return card, classify(err, "")
}

func (b *boardQueries) UpdateCard(id domain.CardId, patch domain.CardPatch) (domain.Card, error) {
	row := b.q.QueryRowContext(b.ctx, `
	UPDATE cards AS k SET
		title = COALESCE($2, k.title),
		description = COALESCE($3, k.description),
		status = COALESCE($4, k.status),
		priority = COALESCE($5, k.priority),
		effort = COALESCE($6, k.effort),
		start_date = COALESCE($7, k.start_date),
		due_date = COALESCE($8, k.due_date),
		updated_by = $9,
		updated_at = now()
	WHERE k.id = $1
	RETURNING `+cardFields,
		id, patch.Title, patch.Description, patch.Status, patch.Priority,
		patch.Effort, patch.StartDate, patch.DueDate, patch.UpdatedBy)
	card, err := scanCard(row)
	return card, classify(err, "Card not found")
}

func (b *boardQueries) MoveCard(id domain.CardId, columnId domain.ColumnId, position domain.Position, updatedBy domain.UserId) (domain.Card, error) {
	row := b.q.QueryRowContext(b.ctx, `
	UPDATE cards AS k SET
		column_id = $2,
		position = $3,
		updated_by = $4,
		updated_at = now()
	WHERE k.id = $1
	RETURNING `+cardFields,
		id, columnId, formatPosition(position), updatedBy)
	card, err := scanCard(row)
	return card, classify(err, "Card not found")
}

func (b *boardQueries) SetCardPositions(ids []domain.CardId, positions []domain.Position) error {
	return b.setPositions("cards", ids, positions)
}

func (b *boardQueries) ArchiveCard(id domain.CardId, updatedBy domain.UserId) error {
	result, err := b.q.ExecContext(b.ctx,
		"UPDATE cards SET archived = true, updated_by = $2, updated_at = now() WHERE id = $1",
		id, updatedBy)
	return affectedOne(result, err, "Card not found")
}

// =========================================================================
// Helpers
// =========================================================================

func (b *boardQueries) maxPosition(query string, arg any) (*domain.Position, error) {
	var raw sql.NullString
	if err := b.q.QueryRowContext(b.ctx, query, arg).Scan(&raw); err != nil {
		return nil, classify(err, "")
	}
	if !raw.Valid {
		return nil, nil
	}
	p, err := parsePosition(raw.String)
	if err != nil {
		return nil, internal_errors.Transient("", err)
	}
	return &p, nil
}

// setPositions rewrites many positions in one statement. table is one of the
// two sibling tables and never comes from input.
func (b *boardQueries) setPositions(table string, ids []uuid.UUID, positions []domain.Position) error {
	if len(ids) != len(positions) {
		return fmt.Errorf("setPositions: %d ids for %d positions", len(ids), len(positions))
	}
	idText := make([]string, len(ids))
	posText := make([]string, len(positions))
	for i := range ids {
		idText[i] = ids[i].String()
		posText[i] = formatPosition(positions[i])
	}

	query := fmt.Sprintf(`
	UPDATE %s AS t SET position = v.position::numeric, updated_at = now()
	FROM unnest($1::uuid[], $2::text[]) AS v(id, position)
	WHERE t.id = v.id
	`, pq.QuoteIdentifier(table))
	_, err := b.q.ExecContext(b.ctx, query, pq.StringArray(idText), pq.StringArray(posText))
	return classify(err, "")
}

func affectedOne(result sql.Result, err error, notFound string) error {
	if err != nil {
		return classify(err, "")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return classify(err, "")
	}
	if n == 0 {
		return internal_errors.NotFound(notFound)
	}
	return nil
}
