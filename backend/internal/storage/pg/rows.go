package pg

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/taskboard-dev/taskboard/shared/domain"
	internal_errors "github.com/taskboard-dev/taskboard/shared/errors"
	"github.com/taskboard-dev/taskboard/shared/logger"
)

// Row converters. Every field read from the datastore is checked here, so the
// service never sees a loosely typed value. position is NUMERIC in the schema
// and is selected as text to keep the conversion in one place.

type scanner interface {
	Scan(dest ...any) error
}

const projectFields = "p.id, p.owner_id, p.name, p.description, p.visibility, p.archived, p.created_at, p.updated_at"

type projectRow struct {
	id          uuid.UUID
	ownerId     uuid.UUID
	name        string
	description sql.NullString
	visibility  string
	archived    bool
	createdAt   time.Time
	updatedAt   time.Time
}

func (r *projectRow) dest() []any {
	return []any{&r.id, &r.ownerId, &r.name, &r.description, &r.visibility, &r.archived, &r.createdAt, &r.updatedAt}
}

func (r *projectRow) toDomain() (domain.Project, error) {
	v := domain.Visibility(r.visibility)
	if !v.Valid() {
		return domain.Project{}, malformed("project", r.id, fmt.Errorf("unknown visibility %q", r.visibility))
	}
	return domain.Project{
		Id:          r.id,
		OwnerId:     r.ownerId,
		Name:        r.name,
		Description: nullString(r.description),
		Visibility:  v,
		Archived:    r.archived,
		CreatedAt:   r.createdAt,
		UpdatedAt:   r.updatedAt,
	}, nil
}

func scanProject(s scanner) (domain.Project, error) {
	var r projectRow
	if err := s.Scan(r.dest()...); err != nil {
		return domain.Project{}, err
	}
	return r.toDomain()
}

const columnFields = "c.id, c.project_id, c.title, c.position::text, c.seq, c.hero_image_url, c.archived, c.created_at, c.updated_at"

type columnRow struct {
	id           uuid.UUID
	projectId    uuid.UUID
	title        string
	position     string
	seq          int64
	heroImageURL sql.NullString
	archived     bool
	createdAt    time.Time
	updatedAt    time.Time
}

func (r *columnRow) dest() []any {
	return []any{&r.id, &r.projectId, &r.title, &r.position, &r.seq, &r.heroImageURL, &r.archived, &r.createdAt, &r.updatedAt}
}

func (r *columnRow) toDomain() (domain.Column, error) {
	position, err := parsePosition(r.position)
	if err != nil {
		return domain.Column{}, malformed("column", r.id, err)
	}
	return domain.Column{
		Id:           r.id,
		ProjectId:    r.projectId,
		Title:        r.title,
		Position:     position,
		Seq:          r.seq,
		HeroImageURL: nullString(r.heroImageURL),
		Archived:     r.archived,
		CreatedAt:    r.createdAt,
		UpdatedAt:    r.updatedAt,
	}, nil
}

func scanColumn(s scanner) (domain.Column, error) {
	var r columnRow
	if err := s.Scan(r.dest()...); err != nil {
		return domain.Column{}, err
	}
	return r.toDomain()
}

const cardFields = `k.id, k.project_id, k.column_id, k.parent_card_id, k.title, k.description, k.status, k.priority,
	k.effort, k.start_date, k.due_date, k.archived, k.position::text, k.seq, k.created_by, k.updated_by, k.created_at, k.updated_at`

type cardRow struct {
	id           uuid.UUID
	projectId    uuid.UUID
	columnId     uuid.NullUUID
	parentCardId uuid.NullUUID
	title        string
	description  sql.NullString
	status       string
	priority     string
	effort       sql.NullInt32
	startDate    sql.NullTime
	dueDate      sql.NullTime
	archived     bool
	position     string
	seq          int64
	createdBy    uuid.UUID
	updatedBy    uuid.NullUUID
	createdAt    time.Time
	updatedAt    time.Time
}

func (r *cardRow) dest() []any {
	return []any{
		&r.id, &r.projectId, &r.columnId, &r.parentCardId, &r.title, &r.description, &r.status, &r.priority,
		&r.effort, &r.startDate, &r.dueDate, &r.archived, &r.position, &r.seq, &r.createdBy, &r.updatedBy, &r.createdAt, &r.updatedAt,
	}
}

func (r *cardRow) toDomain() (domain.Card, error) {
	position, err := parsePosition(r.position)
	if err != nil {
		return domain.Card{}, malformed("card", r.id, err)
	}
	status := domain.CardStatus(r.status)
	if !status.Valid() {
		return domain.Card{}, malformed("card", r.id, fmt.Errorf("unknown status %q", r.status))
	}
	priority := domain.CardPriority(r.priority)
	if !priority.Valid() {
		return domain.Card{}, malformed("card", r.id, fmt.Errorf("unknown priority %q", r.priority))
	}

	card := domain.Card{
		Id:           r.id,
		ProjectId:    r.projectId,
		ColumnId:     nullUUID(r.columnId),
		ParentCardId: nullUUID(r.parentCardId),
		Title:        r.title,
		Description:  nullString(r.description),
		Status:       status,
		Priority:     priority,
		StartDate:    nullTime(r.startDate),
		DueDate:      nullTime(r.dueDate),
		Archived:     r.archived,
		Position:     position,
		Seq:          r.seq,
		CreatedBy:    r.createdBy,
		UpdatedBy:    nullUUID(r.updatedBy),
		CreatedAt:    r.createdAt,
		UpdatedAt:    r.updatedAt,
	}
	if r.effort.Valid {
		effort := int(r.effort.Int32)
		if effort < domain.MinEffort || effort > domain.MaxEffort {
			return domain.Card{}, malformed("card", r.id, fmt.Errorf("effort %d out of range", effort))
		}
		card.Effort = &effort
	}
	return card, nil
}

func scanCard(s scanner) (domain.Card, error) {
	var r cardRow
	if err := s.Scan(r.dest()...); err != nil {
		return domain.Card{}, err
	}
	return r.toDomain()
}

func parsePosition(s string) (domain.Position, error) {
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("position %q is not numeric: %w", s, err)
	}
	if math.IsInf(p, 0) || math.IsNaN(p) {
		return 0, fmt.Errorf("position %q is not finite", s)
	}
	return p, nil
}

// formatPosition is the inverse of parsePosition; NUMERIC keeps every digit.
func formatPosition(p domain.Position) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func malformed(entity string, id uuid.UUID, err error) error {
	logger.Log.Error("malformed row", "entity", entity, "id", id, "error", err)
	return internal_errors.Transient("", fmt.Errorf("malformed %s row %s: %w", entity, id, err))
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullUUID(u uuid.NullUUID) *uuid.UUID {
	if !u.Valid {
		return nil
	}
	return &u.UUID
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func toNullUUID(u *uuid.UUID) uuid.NullUUID {
	if u == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *u, Valid: true}
}
