package domain

import (
	"time"
)

// to iterate thru layers: handler -> service -> storage
type ProjectCreationData struct {
	Name        ProjectName `validate:"required,max=120"`
	Description *string     `validate:"omitempty,max=2000"`
	Visibility  Visibility
}

type Project struct {
	Id          ProjectId   `json:"id"`
	OwnerId     UserId      `json:"owner_id"`
	Name        ProjectName `json:"name"`
	Description *string     `json:"description"`
	Visibility  Visibility  `json:"visibility"`
	Archived    bool        `json:"archived"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ProjectAccess is a project together with the caller's explicit role on it, if any.
type ProjectAccess struct {
	Project
	Role Role
}

type ColumnWithCards struct {
	Column
	Cards []Card `json:"cards"`
}

type Board struct {
	Project Project           `json:"project"`
	Columns []ColumnWithCards `json:"columns"`
}
