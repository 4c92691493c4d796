package boardsync

import (
	"time"

	internal_errors "github.com/taskboard-dev/taskboard/shared/errors"
)

type Status int

const (
	// StatusIdle is reported for keys that were never requested.
	StatusIdle Status = iota
	StatusPending
	StatusError
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	default:
		return "idle"
	}
}

// State is a snapshot of a query or mutation.
// Message is set with StatusError and is safe to show to the user.
type State struct {
	Status    Status
	Data      any
	Err       error
	Message   string
	Stale     bool
	UpdatedAt time.Time
}

func errorState(err error) State {
	return State{Status: StatusError, Err: err, Message: internal_errors.Message(err)}
}
