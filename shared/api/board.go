package api

import (
	"time"

	"github.com/taskboard-dev/taskboard/shared/domain"
)

// Request DTOs. Text fields are validated by the board service after trimming,
// so only structural requirements are tagged here.

type CreateProjectRequest struct {
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	Visibility  domain.Visibility `json:"visibility" validate:"required"`
}

type ShareProjectRequest struct {
	Role domain.Role `json:"role" validate:"required"`
}

type CreateColumnRequest struct {
	Title        string  `json:"title"`
	HeroImageURL *string `json:"hero_image_url,omitempty"`
}

type MoveColumnRequest struct {
	// AfterId nil moves the column to the front.
	AfterId *domain.ColumnId `json:"after_id"`
}

type CreateCardRequest struct {
	ColumnId     domain.ColumnId     `json:"column_id" validate:"required"`
	ParentCardId *domain.CardId      `json:"parent_card_id,omitempty"`
	Title        string              `json:"title"`
	Description  *string             `json:"description,omitempty"`
	Status       domain.CardStatus   `json:"status,omitempty"`
	Priority     domain.CardPriority `json:"priority,omitempty"`
	Effort       *int                `json:"effort,omitempty"`
	StartDate    *time.Time          `json:"start_date,omitempty"`
	DueDate      *time.Time          `json:"due_date,omitempty"`
}

type UpdateCardRequest struct {
	Title       *string              `json:"title,omitempty"`
	Description *string              `json:"description,omitempty"`
	Status      *domain.CardStatus   `json:"status,omitempty"`
	Priority    *domain.CardPriority `json:"priority,omitempty"`
	Effort      *int                 `json:"effort,omitempty"`
	StartDate   *time.Time           `json:"start_date,omitempty"`
	DueDate     *time.Time           `json:"due_date,omitempty"`
}

type MoveCardRequest struct {
	ToColumnId domain.ColumnId `json:"to_column_id" validate:"required"`
	AfterId    *domain.CardId  `json:"after_id"`
}

func (r CreateProjectRequest) ToDomain() domain.ProjectCreationData {
	return domain.ProjectCreationData{Name: r.Name, Description: r.Description, Visibility: r.Visibility}
}

func (r CreateColumnRequest) ToDomain(projectId domain.ProjectId) domain.ColumnCreationData {
	return domain.ColumnCreationData{ProjectId: projectId, Title: r.Title, HeroImageURL: r.HeroImageURL}
}

func (r CreateCardRequest) ToDomain(projectId domain.ProjectId) domain.CardCreationData {
	return domain.CardCreationData{
		ProjectId:    projectId,
		ColumnId:     r.ColumnId,
		ParentCardId: r.ParentCardId,
		Title:        r.Title,
		Description:  r.Description,
		Status:       r.Status,
		Priority:     r.Priority,
		Effort:       r.Effort,
		StartDate:    r.StartDate,
		DueDate:      r.DueDate,
	}
}

func (r UpdateCardRequest) ToDomain() domain.CardPatch {
	return domain.CardPatch{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		Effort:      r.Effort,
		StartDate:   r.StartDate,
		DueDate:     r.DueDate,
	}
}

func (r MoveCardRequest) ToDomain() domain.CardMove {
	return domain.CardMove{ToColumnId: r.ToColumnId, AfterId: r.AfterId}
}

// Response DTOs

type ProjectListResponse struct {
	Projects []domain.Project `json:"projects"`
}

// CardResponse adds the rendered description for the presentation layer.
type CardResponse struct {
	domain.Card
	DescriptionHTML string `json:"description_html,omitempty"`
}

type ColumnResponse struct {
	domain.Column
	Cards []CardResponse `json:"cards"`
}

type BoardResponse struct {
	Project domain.Project   `json:"project"`
	Columns []ColumnResponse `json:"columns"`
}

// ToDomain drops the presentation-only fields.
func (b BoardResponse) ToDomain() domain.Board {
	board := domain.Board{Project: b.Project, Columns: make([]domain.ColumnWithCards, 0, len(b.Columns))}
	for _, col := range b.Columns {
		cards := make([]domain.Card, 0, len(col.Cards))
		for _, c := range col.Cards {
			cards = append(cards, c.Card)
		}
		board.Columns = append(board.Columns, domain.ColumnWithCards{Column: col.Column, Cards: cards})
	}
	return board
}
