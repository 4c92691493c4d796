// Package boardsync is the client side read cache over the board contract.
// Reads are keyed by query identity and coalesced; mutations invalidate the
// queries they can affect and trigger a background refetch.
package boardsync

import (
	"context"

	"github.com/taskboard-dev/taskboard/shared/domain"
)

// Backend is the board contract. The in-process service and the HTTP client both satisfy it.
type Backend interface {
	ListProjects(ctx context.Context, p domain.Principal) ([]domain.Project, error)
	CreateProject(ctx context.Context, p domain.Principal, data domain.ProjectCreationData) (domain.Project, error)
	GetBoard(ctx context.Context, p domain.Principal, projectId domain.ProjectId) (domain.Board, error)
	CreateColumn(ctx context.Context, p domain.Principal, data domain.ColumnCreationData) (domain.Column, error)
	CreateCard(ctx context.Context, p domain.Principal, data domain.CardCreationData) (domain.Card, error)
	UpdateCard(ctx context.Context, p domain.Principal, projectId domain.ProjectId, cardId domain.CardId, patch domain.CardPatch) (domain.Card, error)
	MoveColumn(ctx context.Context, p domain.Principal, projectId domain.ProjectId, columnId domain.ColumnId, after *domain.ColumnId) (domain.Column, error)
	MoveCard(ctx context.Context, p domain.Principal, projectId domain.ProjectId, cardId domain.CardId, move domain.CardMove) (domain.Card, error)
	ArchiveProject(ctx context.Context, p domain.Principal, projectId domain.ProjectId) error
	ArchiveColumn(ctx context.Context, p domain.Principal, projectId domain.ProjectId, columnId domain.ColumnId) error
	ArchiveCard(ctx context.Context, p domain.Principal, projectId domain.ProjectId, cardId domain.CardId) error
	ShareProject(ctx context.Context, p domain.Principal, projectId domain.ProjectId, userId domain.UserId, role domain.Role) error
}

// IdentityProvider supplies the principal every call is made as.
type IdentityProvider interface {
	CurrentPrincipal() domain.Principal
}

// StaticIdentity always answers with the same principal.
type StaticIdentity domain.Principal

func (s StaticIdentity) CurrentPrincipal() domain.Principal {
	return domain.Principal(s)
}
