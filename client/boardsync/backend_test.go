package boardsync

import (
	"context"
	"sync"

	"github.com/taskboard-dev/taskboard/shared/domain"
)

// mockBackend counts calls per operation; unset funcs succeed with zero values.
type mockBackend struct {
	mu    sync.Mutex
	calls map[string]int

	MockListProjects   func(ctx context.Context, p domain.Principal) ([]domain.Project, error)
	MockCreateProject  func(ctx context.Context, p domain.Principal, data domain.ProjectCreationData) (domain.Project, error)
	MockGetBoard       func(ctx context.Context, p domain.Principal, projectId domain.ProjectId) (domain.Board, error)
	MockCreateColumn   func(ctx context.Context, p domain.Principal, data domain.ColumnCreationData) (domain.Column, error)
	MockCreateCard     func(ctx context.Context, p domain.Principal, data domain.CardCreationData) (domain.Card, error)
	MockUpdateCard     func(ctx context.Context, p domain.Principal, projectId domain.ProjectId, cardId domain.CardId, patch domain.CardPatch) (domain.Card, error)
	MockMoveColumn     func(ctx context.Context, p domain.Principal, projectId domain.ProjectId, columnId domain.ColumnId, after *domain.ColumnId) (domain.Column, error)
	MockMoveCard       func(ctx context.Context, p domain.Principal, projectId domain.ProjectId, cardId domain.CardId, move domain.CardMove) (domain.Card, error)
	MockArchiveProject func(ctx context.Context, p domain.Principal, projectId domain.ProjectId) error
	MockArchiveColumn  func(ctx context.Context, p domain.Principal, projectId domain.ProjectId, columnId domain.ColumnId) error
	MockArchiveCard    func(ctx context.Context, p domain.Principal, projectId domain.ProjectId, cardId domain.CardId) error
	MockShareProject   func(ctx context.Context, p domain.Principal, projectId domain.ProjectId, userId domain.UserId, role domain.Role) error
}

var _ Backend = (*mockBackend)(nil)

func (m *mockBackend) count(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[op]++
}

func (m *mockBackend) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *mockBackend) ListProjects(ctx context.Context, p domain.Principal) ([]domain.Project, error) {
	m.count("ListProjects")
	if m.MockListProjects != nil {
		return m.MockListProjects(ctx, p)
	}
	return nil, nil
}

func (m *mockBackend) CreateProject(ctx context.Context, p domain.Principal, data domain.ProjectCreationData) (domain.Project, error) {
	m.count("CreateProject")
	if m.MockCreateProject != nil {
		return m.MockCreateProject(ctx, p, data)
	}
	return domain.Project{Name: data.Name}, nil
}

func (m *mockBackend) GetBoard(ctx context.Context, p domain.Principal, projectId domain.ProjectId) (domain.Board, error) {
	m.count("GetBoard")
	if m.MockGetBoard != nil {
		return m.MockGetBoard(ctx, p, projectId)
	}
	return domain.Board{Project: domain.Project{Id: projectId}}, nil
}

func (m *mockBackend) CreateColumn(ctx context.Context, p domain.Principal, data domain.ColumnCreationData) (domain.Column, error) {
	m.count("CreateColumn")
	if m.MockCreateColumn != nil {
		return m.MockCreateColumn(ctx, p, data)
	}
	return domain.Column{ProjectId: data.ProjectId, Title: data.Title}, nil
}

func (m *mockBackend) CreateCard(ctx context.Context, p domain.Principal, data domain.CardCreationData) (domain.Card, error) {
	m.count("CreateCard")
	if m.MockCreateCard != nil {
		return m.MockCreateCard(ctx, p, data)
	}
	return domain.Card{ProjectId: data.ProjectId, Title: data.Title}, nil
}

func (m *mockBackend) UpdateCard(ctx context.Context, p domain.Principal, projectId domain.ProjectId, cardId domain.CardId, patch domain.CardPatch) (domain.Card, error) {
	m.count("UpdateCard")
	if m.MockUpdateCard != nil {
		return m.MockUpdateCard(ctx, p, projectId, cardId, patch)
	}
	return domain.Card{Id: cardId}, nil
}

func (m *mockBackend) MoveColumn(ctx context.Context, p domain.Principal, projectId domain.ProjectId, columnId domain.ColumnId, after *domain.ColumnId) (domain.Column, error) {
	m.count("MoveColumn")
	if m.MockMoveColumn != nil {
		return m.MockMoveColumn(ctx, p, projectId, columnId, after)
	}
	return domain.Column{Id: columnId}, nil
}

func (m *mockBackend) MoveCard(ctx context.Context, p domain.Principal, projectId domain.ProjectId, cardId domain.CardId, move domain.CardMove) (domain.Card, error) {
	m.count("MoveCard")
	if m.MockMoveCard != nil {
		return m.MockMoveCard(ctx, p, projectId, cardId, move)
	}
	return domain.Card{Id: cardId, ColumnId: &move.ToColumnId}, nil
}

func (m *mockBackend) ArchiveProject(ctx context.Context, p domain.Principal, projectId domain.ProjectId) error {
	m.count("ArchiveProject")
	if m.MockArchiveProject != nil {
		return m.MockArchiveProject(ctx, p, projectId)
	}
	return nil
}

func (m *mockBackend) ArchiveColumn(ctx context.Context, p domain.Principal, projectId domain.ProjectId, columnId domain.ColumnId) error {
	m.count("ArchiveColumn")
	if m.MockArchiveColumn != nil {
		return m.MockArchiveColumn(ctx, p, projectId, columnId)
	}
	return nil
}

func (m *mockBackend) ArchiveCard(ctx context.Context, p domain.Principal, projectId domain.ProjectId, cardId domain.CardId) error {
	m.count("ArchiveCard")
	if m.MockArchiveCard != nil {
		return m.MockArchiveCard(ctx, p, projectId, cardId)
	}
	return nil
}

func (m *mockBackend) ShareProject(ctx context.Context, p domain.Principal, projectId domain.ProjectId, userId domain.UserId, role domain.Role) error {
	m.count("ShareProject")
	if m.MockShareProject != nil {
		return m.MockShareProject(ctx, p, projectId, userId, role)
	}
	return nil
}
