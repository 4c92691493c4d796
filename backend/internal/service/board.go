package service

import (
	"bytes"
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/taskboard-dev/taskboard/backend/internal/access"
	"github.com/taskboard-dev/taskboard/backend/internal/ordering"
	"github.com/taskboard-dev/taskboard/shared/domain"
	internal_errors "github.com/taskboard-dev/taskboard/shared/errors"
	"github.com/taskboard-dev/taskboard/shared/logger"
)

// to mock service in tests
type BoardService interface {
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

// BoardStorage runs fn inside a single datastore transaction.
// View is read-only; Update commits when fn returns nil and rolls back otherwise.
type BoardStorage interface {
	View(ctx context.Context, fn func(q BoardQueries) error) error
	Update(ctx context.Context, fn func(q BoardQueries) error) error
}

// BoardQueries is bound to one transaction. Lookups by id return a NotFound
// error for missing rows and include archived rows; collection reads return
// only live rows ordered by (position, seq).
type BoardQueries interface {
	Project(id domain.ProjectId) (domain.Project, error)
	// LockProject is Project plus a row lock held until the transaction ends.
	LockProject(id domain.ProjectId) (domain.Project, error)
	MemberRole(projectId domain.ProjectId, userId domain.UserId) (domain.Role, error)
	// CandidateProjects returns live projects the user owns or is shared on,
	// plus every live team project when includeTeam is set.
	CandidateProjects(userId domain.UserId, includeTeam bool) ([]domain.ProjectAccess, error)
	InsertProject(ownerId domain.UserId, data domain.ProjectCreationData) (domain.Project, error)
	ArchiveProject(id domain.ProjectId) error
	UpsertMember(projectId domain.ProjectId, userId domain.UserId, role domain.Role) error

	Columns(projectId domain.ProjectId) ([]domain.Column, error)
	Column(id domain.ColumnId) (domain.Column, error)
	LastColumnPosition(projectId domain.ProjectId) (*domain.Position, error)
	InsertColumn(data domain.ColumnCreationData, position domain.Position) (domain.Column, error)
	SetColumnPositions(ids []domain.ColumnId, positions []domain.Position) error
	ArchiveColumn(id domain.ColumnId) error

	// Cards returns the live top-level cards of a project.
	Cards(projectId domain.ProjectId) ([]domain.Card, error)
	ColumnCards(columnId domain.ColumnId) ([]domain.Card, error)
	Card(id domain.CardId) (domain.Card, error)
	LastCardPosition(columnId domain.ColumnId) (*domain.Position, error)
	InsertCard(data domain.CardCreationData, position domain.Position) (domain.Card, error)
	UpdateCard(id domain.CardId, patch domain.CardPatch) (domain.Card, error)
	MoveCard(id domain.CardId, columnId domain.ColumnId, position domain.Position, updatedBy domain.UserId) (domain.Card, error)
	SetCardPositions(ids []domain.CardId, positions []domain.Position) error
	ArchiveCard(id domain.CardId, updatedBy domain.UserId) error
}

// TeamDirectory answers whether a user belongs to the team that can see team projects.
type TeamDirectory interface {
	IsMember(userId domain.UserId) bool
}

type Board struct {
	storage BoardStorage
	team    TeamDirectory
	clock   *ordering.Clock
}

func NewBoard(storage BoardStorage, team TeamDirectory, clock *ordering.Clock) BoardService {
	return &Board{storage: storage, team: team, clock: clock}
}

func (b *Board) ListProjects(ctx context.Context, p domain.Principal) ([]domain.Project, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return nil, err
	}

	isTeamMember := b.team.IsMember(p.UserId)
	var candidates []domain.ProjectAccess
	err := b.storage.View(ctx, func(q BoardQueries) error {
		var err error
		candidates, err = q.CandidateProjects(p.UserId, isTeamMember)
		return err
	})
	if err != nil {
		return nil, b.typed("list projects", err)
	}

	projects := make([]domain.Project, 0, len(candidates))
	seen := make(map[domain.ProjectId]bool, len(candidates))
	for _, c := range candidates {
		if c.Archived || seen[c.Id] {
			continue
		}
		if !access.Allowed(p, c.Project, access.Facts{Role: c.Role, IsTeamMember: isTeamMember}, access.Read) {
			continue
		}
		seen[c.Id] = true
		projects = append(projects, c.Project)
	}
	slices.SortStableFunc(projects, func(a, b domain.Project) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(a.Id[:], b.Id[:])
	})
	return projects, nil
}

func (b *Board) CreateProject(ctx context.Context, p domain.Principal, data domain.ProjectCreationData) (domain.Project, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return domain.Project{}, err
	}
	if err := domain.ValidateProject(&data); err != nil {
		return domain.Project{}, err
	}

	var project domain.Project
	err := b.storage.Update(ctx, func(q BoardQueries) error {
		var err error
		project, err = q.InsertProject(p.UserId, data)
		return err
	})
	if err != nil {
		return domain.Project{}, b.typed("create project", err)
	}

	logger.Log.Info("project created", "project_id", project.Id, "user_id", p.UserId, "visibility", project.Visibility)
	return project, nil
}

func (b *Board) GetBoard(ctx context.Context, p domain.Principal, projectId domain.ProjectId) (domain.Board, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return domain.Board{}, err
	}

	var board domain.Board
	err := b.storage.View(ctx, func(q BoardQueries) error {
		project, err := b.liveProject(q, projectId, false)
		if err != nil {
			return err
		}
		if err := b.authorize(q, p, project, access.Read); err != nil {
			return err
		}
		columns, err := q.Columns(projectId)
		if err != nil {
			return err
		}
		cards, err := q.Cards(projectId)
		if err != nil {
			return err
		}
		board = assembleBoard(project, columns, cards)
		return nil
	})
	if err != nil {
		return domain.Board{}, b.typed("get board", err)
	}
	return board, nil
}

// assembleBoard groups top-level cards under their live columns.
// Cards without a column or in a column that is not live are left out.
func assembleBoard(project domain.Project, columns []domain.Column, cards []domain.Card) domain.Board {
	columns = slices.DeleteFunc(slices.Clone(columns), func(c domain.Column) bool { return c.Archived })
	ordering.Sort(columns, ordering.ColumnKey)

	byColumn := make(map[domain.ColumnId][]domain.Card, len(columns))
	for _, card := range cards {
		if card.Archived || card.ParentCardId != nil || card.ColumnId == nil {
			continue
		}
		byColumn[*card.ColumnId] = append(byColumn[*card.ColumnId], card)
	}

	board := domain.Board{Project: project, Columns: make([]domain.ColumnWithCards, 0, len(columns))}
	for _, column := range columns {
		columnCards := byColumn[column.Id]
		if columnCards == nil {
			columnCards = []domain.Card{}
		}
		ordering.Sort(columnCards, ordering.CardKey)
		board.Columns = append(board.Columns, domain.ColumnWithCards{Column: column, Cards: columnCards})
	}
	return board
}

func (b *Board) CreateColumn(ctx context.Context, p domain.Principal, data domain.ColumnCreationData) (domain.Column, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return domain.Column{}, err
	}
	if err := domain.ValidateColumn(&data); err != nil {
		return domain.Column{}, err
	}

	var column domain.Column
	err := b.storage.Update(ctx, func(q BoardQueries) error {
		project, err := b.liveProject(q, data.ProjectId, true)
		if err != nil {
			return err
		}
		if err := b.authorize(q, p, project, access.Write); err != nil {
			return err
		}
		last, err := q.LastColumnPosition(project.Id)
		if err != nil {
			return err
		}
		column, err = q.InsertColumn(data, b.appendPosition(last))
		return err
	})
	if err != nil {
		return domain.Column{}, b.typed("create column", err)
	}

	logger.Log.Info("column created", "project_id", column.ProjectId, "column_id", column.Id, "user_id", p.UserId)
	return column, nil
}

func (b *Board) CreateCard(ctx context.Context, p domain.Principal, data domain.CardCreationData) (domain.Card, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return domain.Card{}, err
	}
	if err := domain.ValidateCard(&data); err != nil {
		return domain.Card{}, err
	}
	data.CreatedBy = p.UserId

	var card domain.Card
	err := b.storage.Update(ctx, func(q BoardQueries) error {
		project, err := b.liveProject(q, data.ProjectId, true)
		if err != nil {
			return err
		}
		if err := b.authorize(q, p, project, access.Write); err != nil {
			return err
		}
		if _, err := liveColumn(q, project.Id, data.ColumnId); err != nil {
			return err
		}
		if data.ParentCardId != nil {
			if _, err := liveCard(q, project.Id, *data.ParentCardId); err != nil {
				if internal_errors.Is(err, internal_errors.KindNotFound) {
					return internal_errors.NotFound("Parent card not found")
				}
				return err
			}
		}
		last, err := q.LastCardPosition(data.ColumnId)
		if err != nil {
			return err
		}
		card, err = q.InsertCard(data, b.appendPosition(last))
		return err
	})
	if err != nil {
		return domain.Card{}, b.typed("create card", err)
	}

	logger.Log.Info("card created", "project_id", card.ProjectId, "column_id", data.ColumnId, "card_id", card.Id, "user_id", p.UserId)
	return card, nil
}

func (b *Board) UpdateCard(ctx context.Context, p domain.Principal, projectId domain.ProjectId, cardId domain.CardId, patch domain.CardPatch) (domain.Card, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return domain.Card{}, err
	}
	if err := domain.ValidateCardPatch(&patch); err != nil {
		return domain.Card{}, err
	}
	patch.UpdatedBy = p.UserId

	var card domain.Card
	err := b.storage.Update(ctx, func(q BoardQueries) error {
		project, err := b.liveProject(q, projectId, true)
		if err != nil {
			return err
		}
		if err := b.authorize(q, p, project, access.Write); err != nil {
			return err
		}
		current, err := liveCard(q, project.Id, cardId)
		if err != nil {
			return err
		}
		start, due := current.StartDate, current.DueDate
		if patch.StartDate != nil {
			start = patch.StartDate
		}
		if patch.DueDate != nil {
			due = patch.DueDate
		}
		if start != nil && due != nil && due.Before(*start) {
			return internal_errors.Validation("due date must not be before start date")
		}
		card, err = q.UpdateCard(cardId, patch)
		return err
	})
	if err != nil {
		return domain.Card{}, b.typed("update card", err)
	}

	logger.Log.Info("card updated", "project_id", projectId, "card_id", cardId, "user_id", p.UserId)
	return card, nil
}

func (b *Board) MoveColumn(ctx context.Context, p domain.Principal, projectId domain.ProjectId, columnId domain.ColumnId, after *domain.ColumnId) (domain.Column, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return domain.Column{}, err
	}
	if after != nil && *after == columnId {
		return domain.Column{}, internal_errors.Validation("a column cannot be placed after itself")
	}

	var column domain.Column
	var renumbered bool
	err := b.storage.Update(ctx, func(q BoardQueries) error {
		project, err := b.liveProject(q, projectId, true)
		if err != nil {
			return err
		}
		if err := b.authorize(q, p, project, access.Write); err != nil {
			return err
		}
		column, err = liveColumn(q, project.Id, columnId)
		if err != nil {
			return err
		}
		columns, err := q.Columns(project.Id)
		if err != nil {
			return err
		}

		siblings := make([]ordering.Sibling[domain.ColumnId], 0, len(columns))
		ordering.Sort(columns, ordering.ColumnKey)
		for _, c := range columns {
			if c.Id != columnId && !c.Archived {
				siblings = append(siblings, ordering.Sibling[domain.ColumnId]{Id: c.Id, Key: ordering.ColumnKey(c)})
			}
		}

		pl, found := ordering.Place(siblings, columnId, after)
		if !found {
			return internal_errors.Conflict("The column to place after no longer exists")
		}
		renumbered = pl.Renumbered
		column.Position = pl.Position
		if !pl.Renumbered {
			return q.SetColumnPositions([]domain.ColumnId{columnId}, []domain.Position{pl.Position})
		}
		return q.SetColumnPositions(pl.Order, pl.Positions)
	})
	if err != nil {
		return domain.Column{}, b.typed("move column", err)
	}

	logger.Log.Info("column moved", "project_id", projectId, "column_id", columnId, "user_id", p.UserId, "renumbered", renumbered)
	return column, nil
}

func (b *Board) MoveCard(ctx context.Context, p domain.Principal, projectId domain.ProjectId, cardId domain.CardId, move domain.CardMove) (domain.Card, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return domain.Card{}, err
	}
	if move.ToColumnId == uuid.Nil {
		return domain.Card{}, internal_errors.Validation("column id is required")
	}
	if move.AfterId != nil && *move.AfterId == cardId {
		return domain.Card{}, internal_errors.Validation("a card cannot be placed after itself")
	}

	var card domain.Card
	var renumbered bool
	err := b.storage.Update(ctx, func(q BoardQueries) error {
		project, err := b.liveProject(q, projectId, true)
		if err != nil {
			return err
		}
		if err := b.authorize(q, p, project, access.Write); err != nil {
			return err
		}
		current, err := liveCard(q, project.Id, cardId)
		if err != nil {
			return err
		}
		if current.ParentCardId != nil {
			return internal_errors.Validation("sub-cards follow their parent and cannot be moved")
		}
		if _, err := liveColumn(q, project.Id, move.ToColumnId); err != nil {
			return err
		}
		cards, err := q.ColumnCards(move.ToColumnId)
		if err != nil {
			return err
		}

		siblings := make([]ordering.Sibling[domain.CardId], 0, len(cards))
		ordering.Sort(cards, ordering.CardKey)
		for _, c := range cards {
			if c.Id != cardId && !c.Archived && c.ParentCardId == nil {
				siblings = append(siblings, ordering.Sibling[domain.CardId]{Id: c.Id, Key: ordering.CardKey(c)})
			}
		}

		pl, found := ordering.Place(siblings, cardId, move.AfterId)
		if !found {
			return internal_errors.Conflict("The card to place after no longer exists in that column")
		}
		renumbered = pl.Renumbered
		card, err = q.MoveCard(cardId, move.ToColumnId, pl.Position, p.UserId)
		if err != nil {
			return err
		}
		if pl.Renumbered {
			return q.SetCardPositions(pl.Order, pl.Positions)
		}
		return nil
	})
	if err != nil {
		return domain.Card{}, b.typed("move card", err)
	}

	logger.Log.Info("card moved", "project_id", projectId, "card_id", cardId, "column_id", move.ToColumnId, "user_id", p.UserId, "renumbered", renumbered)
	return card, nil
}

func (b *Board) ArchiveProject(ctx context.Context, p domain.Principal, projectId domain.ProjectId) error {
	if err := access.RequireAuthenticated(p); err != nil {
		return err
	}

	err := b.storage.Update(ctx, func(q BoardQueries) error {
		project, err := b.liveProject(q, projectId, true)
		if err != nil {
			return err
		}
		if err := b.authorize(q, p, project, access.Administer); err != nil {
			return err
		}
		return q.ArchiveProject(projectId)
	})
	if err != nil {
		return b.typed("archive project", err)
	}

	logger.Log.Info("project archived", "project_id", projectId, "user_id", p.UserId)
	return nil
}

func (b *Board) ArchiveColumn(ctx context.Context, p domain.Principal, projectId domain.ProjectId, columnId domain.ColumnId) error {
	if err := access.RequireAuthenticated(p); err != nil {
		return err
	}

	err := b.storage.Update(ctx, func(q BoardQueries) error {
		project, err := b.liveProject(q, projectId, true)
		if err != nil {
			return err
		}
		if err := b.authorize(q, p, project, access.Write); err != nil {
			return err
		}
		if _, err := liveColumn(q, project.Id, columnId); err != nil {
			return err
		}
		return q.ArchiveColumn(columnId)
	})
	if err != nil {
		return b.typed("archive column", err)
	}

	logger.Log.Info("column archived", "project_id", projectId, "column_id", columnId, "user_id", p.UserId)
	return nil
}

func (b *Board) ArchiveCard(ctx context.Context, p domain.Principal, projectId domain.ProjectId, cardId domain.CardId) error {
	if err := access.RequireAuthenticated(p); err != nil {
		return err
	}

	err := b.storage.Update(ctx, func(q BoardQueries) error {
		project, err := b.liveProject(q, projectId, true)
		if err != nil {
			return err
		}
		if err := b.authorize(q, p, project, access.Write); err != nil {
			return err
		}
		if _, err := liveCard(q, project.Id, cardId); err != nil {
			return err
		}
		return q.ArchiveCard(cardId, p.UserId)
	})
	if err != nil {
		return b.typed("archive card", err)
	}

	logger.Log.Info("card archived", "project_id", projectId, "card_id", cardId, "user_id", p.UserId)
	return nil
}

func (b *Board) ShareProject(ctx context.Context, p domain.Principal, projectId domain.ProjectId, userId domain.UserId, role domain.Role) error {
	if err := access.RequireAuthenticated(p); err != nil {
		return err
	}
	if userId == uuid.Nil {
		return internal_errors.Validation("user id is required")
	}
	if err := domain.ValidateRole(role); err != nil {
		return err
	}

	err := b.storage.Update(ctx, func(q BoardQueries) error {
		project, err := b.liveProject(q, projectId, true)
		if err != nil {
			return err
		}
		if err := b.authorize(q, p, project, access.Administer); err != nil {
			return err
		}
		if project.OwnerId == userId {
			return internal_errors.Validation("the owner already has full access")
		}
		return q.UpsertMember(projectId, userId, role)
	})
	if err != nil {
		return b.typed("share project", err)
	}

	logger.Log.Info("project shared", "project_id", projectId, "user_id", p.UserId, "member_id", userId, "role", role)
	return nil
}

// liveProject loads the project and hides archived ones. lock is used on write paths
// so that the parent cannot be archived between the check and the insert.
func (b *Board) liveProject(q BoardQueries, projectId domain.ProjectId, lock bool) (domain.Project, error) {
	var (
		project domain.Project
		err     error
	)
	if lock {
		project, err = q.LockProject(projectId)
	} else {
		project, err = q.Project(projectId)
	}
	if err != nil {
		return domain.Project{}, err
	}
	if project.Archived {
		return domain.Project{}, internal_errors.NotFound("Project not found")
	}
	return project, nil
}

func (b *Board) authorize(q BoardQueries, p domain.Principal, project domain.Project, action access.Action) error {
	facts := access.Facts{IsTeamMember: b.team.IsMember(p.UserId)}
	if project.OwnerId != p.UserId {
		role, err := q.MemberRole(project.Id, p.UserId)
		if err != nil {
			return err
		}
		facts.Role = role
	}
	if err := access.Authorize(p, project, facts, action); err != nil {
		logger.Log.Warn("access denied", "project_id", project.Id, "user_id", p.UserId, "action", action.String())
		return err
	}
	return nil
}

func liveColumn(q BoardQueries, projectId domain.ProjectId, columnId domain.ColumnId) (domain.Column, error) {
	column, err := q.Column(columnId)
	if err != nil {
		return domain.Column{}, err
	}
	if column.ProjectId != projectId || column.Archived {
		return domain.Column{}, internal_errors.NotFound("Column not found")
	}
	return column, nil
}

// liveCard also hides cards whose column has been archived.
func liveCard(q BoardQueries, projectId domain.ProjectId, cardId domain.CardId) (domain.Card, error) {
	card, err := q.Card(cardId)
	if err != nil {
		return domain.Card{}, err
	}
	if card.ProjectId != projectId || card.Archived {
		return domain.Card{}, internal_errors.NotFound("Card not found")
	}
	if card.ColumnId != nil {
		if _, err := liveColumn(q, projectId, *card.ColumnId); err != nil {
			if internal_errors.Is(err, internal_errors.KindNotFound) {
				return domain.Card{}, internal_errors.NotFound("Card not found")
			}
			return domain.Card{}, err
		}
	}
	return card, nil
}

// appendPosition puts a new sibling after the current last one.
func (b *Board) appendPosition(last *domain.Position) domain.Position {
	p := b.clock.Next()
	if last != nil && p <= *last {
		p = *last + ordering.Spacing
	}
	return p
}

// typed makes sure every failure leaving the repository carries a kind.
func (b *Board) typed(op string, err error) error {
	if internal_errors.KindOf(err) != internal_errors.KindUnknown {
		return err
	}
	logger.Log.Error("board repository failure", "op", op, "error", err)
	return internal_errors.Transient("", err)
}
