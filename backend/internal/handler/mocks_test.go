package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/taskboard-dev/taskboard/shared/domain"
	mw "github.com/taskboard-dev/taskboard/shared/middleware"
)

type MockBoardService struct {
	MockListProjects   func(p domain.Principal) ([]domain.Project, error)
	MockCreateProject  func(p domain.Principal, data domain.ProjectCreationData) (domain.Project, error)
	MockGetBoard       func(p domain.Principal, projectId domain.ProjectId) (domain.Board, error)
	MockCreateColumn   func(p domain.Principal, data domain.ColumnCreationData) (domain.Column, error)
	MockCreateCard     func(p domain.Principal, data domain.CardCreationData) (domain.Card, error)
	MockUpdateCard     func(p domain.Principal, projectId domain.ProjectId, cardId domain.CardId, patch domain.CardPatch) (domain.Card, error)
	MockMoveColumn     func(p domain.Principal, projectId domain.ProjectId, columnId domain.ColumnId, after *domain.ColumnId) (domain.Column, error)
	MockMoveCard       func(p domain.Principal, projectId domain.ProjectId, cardId domain.CardId, move domain.CardMove) (domain.Card, error)
	MockArchiveProject func(p domain.Principal, projectId domain.ProjectId) error
	MockArchiveColumn  func(p domain.Principal, projectId domain.ProjectId, columnId domain.ColumnId) error
	MockArchiveCard    func(p domain.Principal, projectId domain.ProjectId, cardId domain.CardId) error
	MockShareProject   func(p domain.Principal, projectId domain.ProjectId, userId domain.UserId, role domain.Role) error
}

func (m *MockBoardService) ListProjects(ctx context.Context, p domain.Principal) ([]domain.Project, error) {
	if m.MockListProjects != nil {
		return m.MockListProjects(p)
	}
	return nil, nil
}

func (m *MockBoardService) CreateProject(ctx context.Context, p domain.Principal, data domain.ProjectCreationData) (domain.Project, error) {
	if m.MockCreateProject != nil {
		return m.MockCreateProject(p, data)
	}
	return domain.Project{}, nil
}

func (m *MockBoardService) GetBoard(ctx context.Context, p domain.Principal, projectId domain.ProjectId) (domain.Board, error) {
	if m.MockGetBoard != nil {
		return m.MockGetBoard(p, projectId)
	}
	return domain.Board{}, nil
}

func (m *MockBoardService) CreateColumn(ctx context.Context, p domain.Principal, data domain.ColumnCreationData) (domain.Column, error) {
	if m.MockCreateColumn != nil {
		return m.MockCreateColumn(p, data)
	}
	return domain.Column{}, nil
}

func (m *MockBoardService) CreateCard(ctx context.Context, p domain.Principal, data domain.CardCreationData) (domain.Card, error) {
	if m.MockCreateCard != nil {
		return m.MockCreateCard(p, data)
	}
	return domain.Card{}, nil
}

func (m *MockBoardService) UpdateCard(ctx context.Context, p domain.Principal, projectId domain.ProjectId, cardId domain.CardId, patch domain.CardPatch) (domain.Card, error) {
	if m.MockUpdateCard != nil {
		return m.MockUpdateCard(p, projectId, cardId, patch)
	}
	return domain.Card{}, nil
}

func (m *MockBoardService) MoveColumn(ctx context.Context, p domain.Principal, projectId domain.ProjectId, columnId domain.ColumnId, after *domain.ColumnId) (domain.Column, error) {
	if m.MockMoveColumn != nil {
		return m.MockMoveColumn(p, projectId, columnId, after)
	}
	return domain.Column{}, nil
}

func (m *MockBoardService) MoveCard(ctx context.Context, p domain.Principal, projectId domain.ProjectId, cardId domain.CardId, move domain.CardMove) (domain.Card, error) {
	if m.MockMoveCard != nil {
		return m.MockMoveCard(p, projectId, cardId, move)
	}
	return domain.Card{}, nil
}

func (m *MockBoardService) ArchiveProject(ctx context.Context, p domain.Principal, projectId domain.ProjectId) error {
	if m.MockArchiveProject != nil {
		return m.MockArchiveProject(p, projectId)
	}
	return nil
}

func (m *MockBoardService) ArchiveColumn(ctx context.Context, p domain.Principal, projectId domain.ProjectId, columnId domain.ColumnId) error {
	if m.MockArchiveColumn != nil {
		return m.MockArchiveColumn(p, projectId, columnId)
	}
	return nil
}

func (m *MockBoardService) ArchiveCard(ctx context.Context, p domain.Principal, projectId domain.ProjectId, cardId domain.CardId) error {
	if m.MockArchiveCard != nil {
		return m.MockArchiveCard(p, projectId, cardId)
	}
	return nil
}

func (m *MockBoardService) ShareProject(ctx context.Context, p domain.Principal, projectId domain.ProjectId, userId domain.UserId, role domain.Role) error {
	if m.MockShareProject != nil {
		return m.MockShareProject(p, projectId, userId, role)
	}
	return nil
}

func createRequest(t *testing.T, method, url string, body []byte) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, url, bytes.NewBuffer(body))
}

// withPrincipal stands in for the auth middleware.
func withPrincipal(p domain.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(mw.WithPrincipal(r.Context(), p)))
		})
	}
}

// setupBoardRouter mounts the board routes the same way the router package does.
func setupBoardRouter(h *Handler, p domain.Principal) *chi.Mux {
	router := chi.NewRouter()
	router.Use(withPrincipal(p))
	router.Route("/v1/projects", func(r chi.Router) {
		r.Get("/", h.ListProjects)
		r.Post("/", h.CreateProject)
		r.Route("/{project}", func(r chi.Router) {
			r.Delete("/", h.ArchiveProject)
			r.Put("/members/{user}", h.ShareProject)
			r.Get("/board", h.GetBoard)
			r.Post("/columns", h.CreateColumn)
			r.Post("/columns/{column}/move", h.MoveColumn)
			r.Delete("/columns/{column}", h.ArchiveColumn)
			r.Post("/cards", h.CreateCard)
			r.Patch("/cards/{card}", h.UpdateCard)
			r.Post("/cards/{card}/move", h.MoveCard)
			r.Delete("/cards/{card}", h.ArchiveCard)
		})
	})
	return router
}
