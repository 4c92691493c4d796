package boardsync

import (
	"github.com/taskboard-dev/taskboard/shared/domain"
)

// Key identifies a cached query. Keys embed the user so that switching
// principals never serves another user's data.
type Key string

func ProjectsKey(userId domain.UserId) Key {
	return Key("projects/" + userId.String())
}

func BoardKey(userId domain.UserId, projectId domain.ProjectId) Key {
	return Key("projects/" + userId.String() + "/" + projectId.String() + "/board")
}

type queryKind int

const (
	kindProjects queryKind = iota
	kindBoard
)

type scope struct {
	kind      queryKind
	projectId domain.ProjectId
}
