package domain

import "github.com/google/uuid"

type (
	UserId    = uuid.UUID
	SessionId = uuid.UUID
	ProjectId = uuid.UUID
	ColumnId  = uuid.UUID
	CardId    = uuid.UUID

	ProjectName  = string
	ColumnTitle  = string
	CardTitle    = string
	Position     = float64
	InsertionSeq = int64
)

type Visibility string

const (
	VisibilityTeam     Visibility = "team"
	VisibilityPersonal Visibility = "personal"
)

func (v Visibility) Valid() bool {
	return v == VisibilityTeam || v == VisibilityPersonal
}

type CardStatus string

const (
	StatusInProgress  CardStatus = "in_progress"
	StatusBlocked     CardStatus = "blocked"
	StatusNeedsReview CardStatus = "needs_review"
	StatusComplete    CardStatus = "complete"
)

var CardStatuses = []CardStatus{StatusInProgress, StatusBlocked, StatusNeedsReview, StatusComplete}

func (s CardStatus) Valid() bool {
	for _, v := range CardStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type CardPriority string

const (
	PriorityVeryLow CardPriority = "very_low"
	PriorityLow     CardPriority = "low"
	PriorityMedium  CardPriority = "medium"
	PriorityHigh    CardPriority = "high"
	PriorityExtreme CardPriority = "extreme"
)

var CardPriorities = []CardPriority{PriorityVeryLow, PriorityLow, PriorityMedium, PriorityHigh, PriorityExtreme}

func (p CardPriority) Valid() bool {
	for _, v := range CardPriorities {
		if p == v {
			return true
		}
	}
	return false
}

// Role is the explicit share level a user holds on a project.
// Owners are recorded on the project row itself, never in project_members.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleEditor || r == RoleViewer
}

const (
	DefaultStatus   = StatusInProgress
	DefaultPriority = PriorityMedium

	MinEffort = 1
	MaxEffort = 10
)
