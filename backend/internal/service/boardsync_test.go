package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard-dev/taskboard/client/boardsync"
	"github.com/taskboard-dev/taskboard/shared/domain"
)

var _ boardsync.Backend = BoardService(nil)

// The sync client can sit directly on the service in process.
func TestBoardsyncInProcess(t *testing.T) {
	tb := newTestBoard(t)
	owner := newUser()
	client := boardsync.New(tb.svc, boardsync.StaticIdentity(owner))
	ctx := context.Background()

	projects, err := client.Projects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)

	project, err := client.CreateProject(ctx, domain.ProjectCreationData{Name: "Launch", Visibility: domain.VisibilityPersonal}).Wait(ctx)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		projects, err := client.Projects(ctx)
		return err == nil && len(projects) == 1 && projects[0].Id == project.Id
	}, time.Second, 5*time.Millisecond)

	column, err := client.CreateColumn(ctx, domain.ColumnCreationData{ProjectId: project.Id, Title: "Backlog"}).Wait(ctx)
	require.NoError(t, err)
	_, err = client.CreateCard(ctx, domain.CardCreationData{ProjectId: project.Id, ColumnId: column.Id, Title: "Write docs"}).Wait(ctx)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		board, err := client.Board(ctx, project.Id)
		return err == nil && len(board.Columns) == 1 && len(board.Columns[0].Cards) == 1
	}, time.Second, 5*time.Millisecond)

	stranger := boardsync.New(tb.svc, boardsync.StaticIdentity(newUser()))
	_, err = stranger.Board(ctx, project.Id)
	assert.Error(t, err)
}
