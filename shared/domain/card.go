package domain

import "time"

type CardCreationData struct {
	ProjectId    ProjectId `validate:"required"`
	ColumnId     ColumnId  `validate:"required"`
	ParentCardId *CardId
	Title        CardTitle `validate:"required,max=200"`
	Description  *string   `validate:"omitempty,max=10000"`
	Status       CardStatus
	Priority     CardPriority
	Effort       *int
	StartDate    *time.Time
	DueDate      *time.Time
	CreatedBy    UserId
}

// CardPatch is a partial update; nil fields are left untouched.
type CardPatch struct {
	Title       *CardTitle `validate:"omitempty,max=200"`
	Description *string    `validate:"omitempty,max=10000"`
	Status      *CardStatus
	Priority    *CardPriority
	Effort      *int
	StartDate   *time.Time
	DueDate     *time.Time
	UpdatedBy   UserId
}

type CardMove struct {
	ToColumnId ColumnId
	AfterId    *CardId
}

type Card struct {
	Id           CardId       `json:"id"`
	ProjectId    ProjectId    `json:"project_id"`
	ColumnId     *ColumnId    `json:"column_id"`
	ParentCardId *CardId      `json:"parent_card_id"`
	Title        CardTitle    `json:"title"`
	Description  *string      `json:"description"`
	Status       CardStatus   `json:"status"`
	Priority     CardPriority `json:"priority"`
	Effort       *int         `json:"effort"`
	StartDate    *time.Time   `json:"start_date"`
	DueDate      *time.Time   `json:"due_date"`
	Archived     bool         `json:"archived"`
	Position     Position     `json:"position"`
	Seq          InsertionSeq `json:"seq"`
	CreatedBy    UserId       `json:"created_by"`
	UpdatedBy    *UserId      `json:"updated_by"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
