// Package access decides which principal may read or change a project.
// Columns and cards have no ACL of their own: they inherit their project's decision.
package access

import (
	"github.com/taskboard-dev/taskboard/shared/domain"
	internal_errors "github.com/taskboard-dev/taskboard/shared/errors"
	"github.com/taskboard-dev/taskboard/shared/logger"
)

type Action int

const (
	Read Action = iota
	Write
	Administer // archive or share the project
)

func (a Action) String() string {
	switch a {
	case Read:
		return "read"
	case Write:
		return "write"
	case Administer:
		return "administer"
	default:
		return "unknown"
	}
}

// Facts is everything the policy needs beyond the project row.
// Team membership itself is resolved outside the policy.
type Facts struct {
	Role         domain.Role // explicit share, empty if none
	IsTeamMember bool
}

// Allowed reports whether principal may perform action on project.
func Allowed(p domain.Principal, project domain.Project, facts Facts, action Action) bool {
	if !p.Authenticated {
		return false
	}
	if project.OwnerId == p.UserId {
		return true
	}

	switch facts.Role {
	case domain.RoleEditor:
		return action == Read || action == Write
	case domain.RoleViewer:
		return action == Read
	}

	if project.Visibility == domain.VisibilityTeam && facts.IsTeamMember {
		return action == Read
	}
	return false
}

// Authorize returns nil when the action is allowed, otherwise the error kind the
// caller must see. A principal that may not even read the project gets NotFound so
// that the existence of a forbidden project does not leak.
func Authorize(p domain.Principal, project domain.Project, facts Facts, action Action) error {
	if !p.Authenticated {
		return internal_errors.Authorization("Please sign in")
	}
	if Allowed(p, project, facts, action) {
		return nil
	}

	logger.Log.Warn("project access denied",
		"user_id", p.UserId,
		"project_id", project.Id,
		"action", action.String())

	if action != Read && Allowed(p, project, facts, Read) {
		return internal_errors.Authorization("You do not have permission to change this project")
	}
	return internal_errors.NotFound("Project not found")
}

// RequireAuthenticated guards operations that are not bound to a project yet.
func RequireAuthenticated(p domain.Principal) error {
	if !p.Authenticated {
		return internal_errors.Authorization("Please sign in")
	}
	return nil
}
