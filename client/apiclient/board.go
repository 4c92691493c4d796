package apiclient

import (
	"context"
	"net/http"

	"github.com/taskboard-dev/taskboard/shared/api"
	"github.com/taskboard-dev/taskboard/shared/domain"
)

func projectPath(projectId domain.ProjectId) string {
	return "/v1/projects/" + projectId.String()
}

// === Project Methods ===

func (c *APIClient) ListProjects(ctx context.Context, p domain.Principal) ([]domain.Project, error) {
	var response api.ProjectListResponse
	if err := c.do(ctx, p, http.MethodGet, "/v1/projects", nil, &response); err != nil {
		return nil, err
	}
	return response.Projects, nil
}

func (c *APIClient) CreateProject(ctx context.Context, p domain.Principal, data domain.ProjectCreationData) (domain.Project, error) {
	req := api.CreateProjectRequest{Name: data.Name, Description: data.Description, Visibility: data.Visibility}
	var project domain.Project
	err := c.do(ctx, p, http.MethodPost, "/v1/projects", req, &project)
	return project, err
}

func (c *APIClient) GetBoard(ctx context.Context, p domain.Principal, projectId domain.ProjectId) (domain.Board, error) {
	var response api.BoardResponse
	if err := c.do(ctx, p, http.MethodGet, projectPath(projectId)+"/board", nil, &response); err != nil {
		return domain.Board{}, err
	}
	return response.ToDomain(), nil
}

func (c *APIClient) ArchiveProject(ctx context.Context, p domain.Principal, projectId domain.ProjectId) error {
	return c.do(ctx, p, http.MethodDelete, projectPath(projectId), nil, nil)
}

func (c *APIClient) ShareProject(ctx context.Context, p domain.Principal, projectId domain.ProjectId, userId domain.UserId, role domain.Role) error {
	path := projectPath(projectId) + "/members/" + userId.String()
	return c.do(ctx, p, http.MethodPut, path, api.ShareProjectRequest{Role: role}, nil)
}

// === Column Methods ===

func (c *APIClient) CreateColumn(ctx context.Context, p domain.Principal, data domain.ColumnCreationData) (domain.Column, error) {
	req := api.CreateColumnRequest{Title: data.Title, HeroImageURL: data.HeroImageURL}
	var column domain.Column
	err := c.do(ctx, p, http.MethodPost, projectPath(data.ProjectId)+"/columns", req, &column)
	return column, err
}

func (c *APIClient) MoveColumn(ctx context.Context, p domain.Principal, projectId domain.ProjectId, columnId domain.ColumnId, after *domain.ColumnId) (domain.Column, error) {
	path := projectPath(projectId) + "/columns/" + columnId.String() + "/move"
	var column domain.Column
	err := c.do(ctx, p, http.MethodPost, path, api.MoveColumnRequest{AfterId: after}, &column)
	return column, err
}

func (c *APIClient) ArchiveColumn(ctx context.Context, p domain.Principal, projectId domain.ProjectId, columnId domain.ColumnId) error {
	return c.do(ctx, p, http.MethodDelete, projectPath(projectId)+"/columns/"+columnId.String(), nil, nil)
}

// === Card Methods ===

func (c *APIClient) CreateCard(ctx context.Context, p domain.Principal, data domain.CardCreationData) (domain.Card, error) {
	req := api.CreateCardRequest{
		ColumnId:     data.ColumnId,
		ParentCardId: data.ParentCardId,
		Title:        data.Title,
		Description:  data.Description,
		Status:       data.Status,
		Priority:     data.Priority,
		Effort:       data.Effort,
		StartDate:    data.StartDate,
		DueDate:      data.DueDate,
	}
	var card api.CardResponse
	err := c.do(ctx, p, http.MethodPost, projectPath(data.ProjectId)+"/cards", req, &card)
	return card.Card, err
}

func (c *APIClient) UpdateCard(ctx context.Context, p domain.Principal, projectId domain.ProjectId, cardId domain.CardId, patch domain.CardPatch) (domain.Card, error) {
	req := api.UpdateCardRequest{
		Title:       patch.Title,
		Description: patch.Description,
		Status:      patch.Status,
		Priority:    patch.Priority,
		Effort:      patch.Effort,
		StartDate:   patch.StartDate,
		DueDate:     patch.DueDate,
	}
	var card api.CardResponse
	err := c.do(ctx, p, http.MethodPatch, projectPath(projectId)+"/cards/"+cardId.String(), req, &card)
	return card.Card, err
}

func (c *APIClient) MoveCard(ctx context.Context, p domain.Principal, projectId domain.ProjectId, cardId domain.CardId, move domain.CardMove) (domain.Card, error) {
	req := api.MoveCardRequest{ToColumnId: move.ToColumnId, AfterId: move.AfterId}
	var card api.CardResponse
	err := c.do(ctx, p, http.MethodPost, projectPath(projectId)+"/cards/"+cardId.String()+"/move", req, &card)
	return card.Card, err
}

func (c *APIClient) ArchiveCard(ctx context.Context, p domain.Principal, projectId domain.ProjectId, cardId domain.CardId) error {
	return c.do(ctx, p, http.MethodDelete, projectPath(projectId)+"/cards/"+cardId.String(), nil, nil)
}
