package service

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskboard-dev/taskboard/backend/internal/ordering"
	"github.com/taskboard-dev/taskboard/shared/domain"
	internal_errors "github.com/taskboard-dev/taskboard/shared/errors"
)

type memberKey struct {
	project domain.ProjectId
	user    domain.UserId
}

type fakeTables struct {
	projects map[domain.ProjectId]domain.Project
	columns  map[domain.ColumnId]domain.Column
	cards    map[domain.CardId]domain.Card
	members  map[memberKey]domain.Role
	seq      domain.InsertionSeq
}

func (t fakeTables) clone() fakeTables {
	return fakeTables{
		projects: maps.Clone(t.projects),
		columns:  maps.Clone(t.columns),
		cards:    maps.Clone(t.cards),
		members:  maps.Clone(t.members),
		seq:      t.seq,
	}
}

// fakeStore is an in-memory BoardStorage. Update works on a copy of the tables
// and swaps it in only when fn succeeds, like a committed transaction.
type fakeStore struct {
	mu     sync.Mutex
	tables fakeTables
	now    time.Time

	// failWith, when set, is returned from every transaction before fn runs.
	failWith error
	// failInsideWith, when set, is returned by the next write query.
	failInsideWith error
	updates        int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tables: fakeTables{
			projects: map[domain.ProjectId]domain.Project{},
			columns:  map[domain.ColumnId]domain.Column{},
			cards:    map[domain.CardId]domain.Card{},
			members:  map[memberKey]domain.Role{},
		},
		now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) View(ctx context.Context, fn func(q BoardQueries) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	snapshot := f.tables.clone()
	return fn(&fakeQueries{store: f, t: &snapshot, readOnly: true})
}

func (f *fakeStore) Update(ctx context.Context, fn func(q BoardQueries) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	working := f.tables.clone()
	if err := fn(&fakeQueries{store: f, t: &working}); err != nil {
		return err
	}
	f.tables = working
	f.updates++
	return nil
}

func (f *fakeStore) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

type fakeQueries struct {
	store    *fakeStore
	t        *fakeTables
	readOnly bool
}

func (q *fakeQueries) write() error {
	if q.readOnly {
		return internal_errors.Transient("", errReadOnly)
	}
	if err := q.store.failInsideWith; err != nil {
		q.store.failInsideWith = nil
		return err
	}
	return nil
}

var errReadOnly = errors.New("write in read-only transaction")

func (q *fakeQueries) nextSeq() domain.InsertionSeq {
	q.t.seq++
	return q.t.seq
}

func (q *fakeQueries) Project(id domain.ProjectId) (domain.Project, error) {
	p, ok := q.t.projects[id]
	if !ok {
		return domain.Project{}, internal_errors.NotFound("Project not found")
	}
	return p, nil
}

func (q *fakeQueries) LockProject(id domain.ProjectId) (domain.Project, error) {
	return q.Project(id)
}

func (q *fakeQueries) MemberRole(projectId domain.ProjectId, userId domain.UserId) (domain.Role, error) {
	return q.t.members[memberKey{projectId, userId}], nil
}

func (q *fakeQueries) CandidateProjects(userId domain.UserId, includeTeam bool) ([]domain.ProjectAccess, error) {
	var out []domain.ProjectAccess
	for _, p := range q.t.projects {
		if p.Archived {
			continue
		}
		role := q.t.members[memberKey{p.Id, userId}]
		if p.OwnerId == userId || role != "" || (includeTeam && p.Visibility == domain.VisibilityTeam) {
			out = append(out, domain.ProjectAccess{Project: p, Role: role})
		}
	}
	return out, nil
}

func (q *fakeQueries) InsertProject(ownerId domain.UserId, data domain.ProjectCreationData) (domain.Project, error) {
	if err := q.write(); err != nil {
		return domain.Project{}, err
	}
	now := q.store.tick()
	p := domain.Project{
		Id:          uuid.New(),
		OwnerId:     ownerId,
		Name:        data.Name,
		Description: data.Description,
		Visibility:  data.Visibility,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	q.t.projects[p.Id] = p
	return p, nil
}

func (q *fakeQueries) ArchiveProject(id domain.ProjectId) error {
	if err := q.write(); err != nil {
		return err
	}
	p := q.t.projects[id]
	p.Archived = true
	q.t.projects[id] = p
	return nil
}

func (q *fakeQueries) UpsertMember(projectId domain.ProjectId, userId domain.UserId, role domain.Role) error {
	if err := q.write(); err != nil {
		return err
	}
	q.t.members[memberKey{projectId, userId}] = role
	return nil
}

func (q *fakeQueries) Columns(projectId domain.ProjectId) ([]domain.Column, error) {
	var out []domain.Column
	for _, c := range q.t.columns {
		if c.ProjectId == projectId && !c.Archived {
			out = append(out, c)
		}
	}
	ordering.Sort(out, ordering.ColumnKey)
	return out, nil
}

func (q *fakeQueries) Column(id domain.ColumnId) (domain.Column, error) {
	c, ok := q.t.columns[id]
	if !ok {
		return domain.Column{}, internal_errors.NotFound("Column not found")
	}
	return c, nil
}

func (q *fakeQueries) LastColumnPosition(projectId domain.ProjectId) (*domain.Position, error) {
	columns, _ := q.Columns(projectId)
	if len(columns) == 0 {
		return nil, nil
	}
	p := columns[len(columns)-1].Position
	return &p, nil
}

func (q *fakeQueries) InsertColumn(data domain.ColumnCreationData, position domain.Position) (domain.Column, error) {
	if err := q.write(); err != nil {
		return domain.Column{}, err
	}
	now := q.store.tick()
	c := domain.Column{
		Id:           uuid.New(),
		ProjectId:    data.ProjectId,
		Title:        data.Title,
		Position:     position,
		Seq:          q.nextSeq(),
		HeroImageURL: data.HeroImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	q.t.columns[c.Id] = c
	return c, nil
}

func (q *fakeQueries) SetColumnPositions(ids []domain.ColumnId, positions []domain.Position) error {
	if err := q.write(); err != nil {
		return err
	}
	for i, id := range ids {
		c := q.t.columns[id]
		c.Position = positions[i]
		q.t.columns[id] = c
	}
	return nil
}

func (q *fakeQueries) ArchiveColumn(id domain.ColumnId) error {
	if err := q.write(); err != nil {
		return err
	}
	c := q.t.columns[id]
	c.Archived = true
	q.t.columns[id] = c
	return nil
}

func (q *fakeQueries) Cards(projectId domain.ProjectId) ([]domain.Card, error) {
	var out []domain.Card
	for _, c := range q.t.cards {
		if c.ProjectId == projectId && !c.Archived && c.ParentCardId == nil {
			out = append(out, c)
		}
	}
	ordering.Sort(out, ordering.CardKey)
	return out, nil
}

func (q *fakeQueries) ColumnCards(columnId domain.ColumnId) ([]domain.Card, error) {
	var out []domain.Card
	for _, c := range q.t.cards {
		if c.ColumnId != nil && *c.ColumnId == columnId && !c.Archived && c.ParentCardId == nil {
			out = append(out, c)
		}
	}
	ordering.Sort(out, ordering.CardKey)
	return out, nil
}

func (q *fakeQueries) Card(id domain.CardId) (domain.Card, error) {
	c, ok := q.t.cards[id]
	if !ok {
		return domain.Card{}, internal_errors.NotFound("Card not found")
	}
	return c, nil
}

func (q *fakeQueries) LastCardPosition(columnId domain.ColumnId) (*domain.Position, error) {
	cards, _ := q.ColumnCards(columnId)
	if len(cards) == 0 {
		return nil, nil
	}
	p := cards[len(cards)-1].Position
	return &p, nil
}

func (q *fakeQueries) InsertCard(data domain.CardCreationData, position domain.Position) (domain.Card, error) {
	if err := q.write(); err != nil {
		return domain.Card{}, err
	}
	now := q.store.tick()
	columnId := data.ColumnId
	c := domain.Card{
		Id:           uuid.New(),
		ProjectId:    data.ProjectId,
		ColumnId:     &columnId,
		ParentCardId: data.ParentCardId,
		Title:        data.Title,
		Description:  data.Description,
		Status:       data.Status,
		Priority:     data.Priority,
		Effort:       data.Effort,
		StartDate:    data.StartDate,
		DueDate:      data.DueDate,
		Position:     position,
		Seq:          q.nextSeq(),
		CreatedBy:    data.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	q.t.cards[c.Id] = c
	return c, nil
}

func (q *fakeQueries) UpdateCard(id domain.CardId, patch domain.CardPatch) (domain.Card, error) {
	if err := q.write(); err != nil {
		return domain.Card{}, err
	}
	c := q.t.cards[id]
	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.Description != nil {
		c.Description = patch.Description
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	if patch.Priority != nil {
		c.Priority = *patch.Priority
	}
	if patch.Effort != nil {
		c.Effort = patch.Effort
	}
	if patch.StartDate != nil {
		c.StartDate = patch.StartDate
	}
	if patch.DueDate != nil {
		c.DueDate = patch.DueDate
	}
	updatedBy := patch.UpdatedBy
	c.UpdatedBy = &updatedBy
	c.UpdatedAt = q.store.tick()
	q.t.cards[id] = c
	return c, nil
}

func (q *fakeQueries) MoveCard(id domain.CardId, columnId domain.ColumnId, position domain.Position, updatedBy domain.UserId) (domain.Card, error) {
	if err := q.write(); err != nil {
		return domain.Card{}, err
	}
	c := q.t.cards[id]
	c.ColumnId = &columnId
	c.Position = position
	c.UpdatedBy = &updatedBy
	c.UpdatedAt = q.store.tick()
	q.t.cards[id] = c
	return c, nil
}

func (q *fakeQueries) SetCardPositions(ids []domain.CardId, positions []domain.Position) error {
	if err := q.write(); err != nil {
		return err
	}
	for i, id := range ids {
		c := q.t.cards[id]
		c.Position = positions[i]
		q.t.cards[id] = c
	}
	return nil
}

func (q *fakeQueries) ArchiveCard(id domain.CardId, updatedBy domain.UserId) error {
	if err := q.write(); err != nil {
		return err
	}
	c := q.t.cards[id]
	c.Archived = true
	c.UpdatedBy = &updatedBy
	q.t.cards[id] = c
	return nil
}

// insertColumnAt and insertCardAt plant rows with chosen positions.
func (f *fakeStore) insertColumnAt(projectId domain.ProjectId, title string, position domain.Position) domain.Column {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := &fakeQueries{store: f, t: &f.tables}
	c, _ := q.InsertColumn(domain.ColumnCreationData{ProjectId: projectId, Title: title}, position)
	return c
}

func (f *fakeStore) insertCardAt(projectId domain.ProjectId, columnId domain.ColumnId, title string, position domain.Position) domain.Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := &fakeQueries{store: f, t: &f.tables}
	c, _ := q.InsertCard(domain.CardCreationData{
		ProjectId: projectId,
		ColumnId:  columnId,
		Title:     title,
		Status:    domain.DefaultStatus,
		Priority:  domain.DefaultPriority,
	}, position)
	return c
}

type staticTeam map[domain.UserId]bool

func (s staticTeam) IsMember(userId domain.UserId) bool { return s[userId] }
