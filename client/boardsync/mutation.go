package boardsync

import (
	"context"
	"sync"

	"github.com/taskboard-dev/taskboard/shared/domain"
	"github.com/taskboard-dev/taskboard/shared/logger"
)

// Mutation tracks one submitted write. It always runs to completion, even when
// nobody waits for it, and its invalidations happen before Wait returns.
type Mutation[T any] struct {
	done chan struct{}

	mu     sync.Mutex
	result T
	err    error
}

func newMutation[T any]() *Mutation[T] {
	return &Mutation[T]{done: make(chan struct{})}
}

func (m *Mutation[T]) finish(result T, err error) {
	m.mu.Lock()
	m.result, m.err = result, err
	m.mu.Unlock()
	close(m.done)
}

func (m *Mutation[T]) State() State {
	select {
	case <-m.done:
	default:
		return State{Status: StatusPending}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return errorState(m.err)
	}
	return State{Status: StatusSuccess, Data: m.result}
}

// Wait blocks until the mutation finishes or ctx ends. Giving up does not
// cancel the mutation.
func (m *Mutation[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-m.done:
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result, m.err
}

// Done is closed once the mutation has finished.
func (m *Mutation[T]) Done() <-chan struct{} {
	return m.done
}

// mutate runs op detached from the caller's cancellation. Mutations sharing an
// order scope run one after another in submission order; unrelated scopes run
// concurrently. Failures are reported and leave the cache untouched.
func mutate[T any](ctx context.Context, c *Client, name, orderScope string, op func(ctx context.Context, p domain.Principal) (T, error), invalidate func()) *Mutation[T] {
	m := newMutation[T]()
	p := c.identity.CurrentPrincipal()
	ctx = context.WithoutCancel(ctx)

	c.mu.Lock()
	prev := c.tails[orderScope]
	c.tails[orderScope] = m.done
	c.mu.Unlock()

	go func() {
		if prev != nil {
			<-prev
		}
		result, err := op(ctx, p)
		if err != nil {
			mutationsTotal.WithLabelValues(name, "error").Inc()
			logger.Log.Info("mutation failed", "component", "boardsync", "op", name, "error", err)
		} else {
			mutationsTotal.WithLabelValues(name, "success").Inc()
			invalidate()
		}
		m.finish(result, err)

		c.mu.Lock()
		if c.tails[orderScope] == m.done {
			delete(c.tails, orderScope)
		}
		c.mu.Unlock()
	}()
	return m
}

func projectScope(projectId domain.ProjectId) string {
	return "project/" + projectId.String()
}

const newProjectsScope = "projects"

func (c *Client) CreateProject(ctx context.Context, data domain.ProjectCreationData) *Mutation[domain.Project] {
	return mutate(ctx, c, "create_project", newProjectsScope,
		func(ctx context.Context, p domain.Principal) (domain.Project, error) {
			return c.backend.CreateProject(ctx, p, data)
		},
		func() { c.invalidate(projectLists) })
}

func (c *Client) ArchiveProject(ctx context.Context, projectId domain.ProjectId) *Mutation[struct{}] {
	return mutate(ctx, c, "archive_project", projectScope(projectId),
		func(ctx context.Context, p domain.Principal) (struct{}, error) {
			return struct{}{}, c.backend.ArchiveProject(ctx, p, projectId)
		},
		func() {
			c.invalidate(projectLists)
			c.invalidate(boardOf(projectId))
		})
}

func (c *Client) ShareProject(ctx context.Context, projectId domain.ProjectId, userId domain.UserId, role domain.Role) *Mutation[struct{}] {
	return mutate(ctx, c, "share_project", projectScope(projectId),
		func(ctx context.Context, p domain.Principal) (struct{}, error) {
			return struct{}{}, c.backend.ShareProject(ctx, p, projectId, userId, role)
		},
		func() { c.invalidate(projectLists) })
}

func (c *Client) CreateColumn(ctx context.Context, data domain.ColumnCreationData) *Mutation[domain.Column] {
	return mutate(ctx, c, "create_column", projectScope(data.ProjectId),
		func(ctx context.Context, p domain.Principal) (domain.Column, error) {
			return c.backend.CreateColumn(ctx, p, data)
		},
		func() { c.invalidate(boardOf(data.ProjectId)) })
}

func (c *Client) MoveColumn(ctx context.Context, projectId domain.ProjectId, columnId domain.ColumnId, after *domain.ColumnId) *Mutation[domain.Column] {
	return mutate(ctx, c, "move_column", projectScope(projectId),
		func(ctx context.Context, p domain.Principal) (domain.Column, error) {
			return c.backend.MoveColumn(ctx, p, projectId, columnId, after)
		},
		func() { c.invalidate(boardOf(projectId)) })
}

func (c *Client) ArchiveColumn(ctx context.Context, projectId domain.ProjectId, columnId domain.ColumnId) *Mutation[struct{}] {
	return mutate(ctx, c, "archive_column", projectScope(projectId),
		func(ctx context.Context, p domain.Principal) (struct{}, error) {
			return struct{}{}, c.backend.ArchiveColumn(ctx, p, projectId, columnId)
		},
		func() { c.invalidate(boardOf(projectId)) })
}

func (c *Client) CreateCard(ctx context.Context, data domain.CardCreationData) *Mutation[domain.Card] {
	return mutate(ctx, c, "create_card", projectScope(data.ProjectId),
		func(ctx context.Context, p domain.Principal) (domain.Card, error) {
			return c.backend.CreateCard(ctx, p, data)
		},
		func() { c.invalidate(boardOf(data.ProjectId)) })
}

func (c *Client) UpdateCard(ctx context.Context, projectId domain.ProjectId, cardId domain.CardId, patch domain.CardPatch) *Mutation[domain.Card] {
	return mutate(ctx, c, "update_card", projectScope(projectId),
		func(ctx context.Context, p domain.Principal) (domain.Card, error) {
			return c.backend.UpdateCard(ctx, p, projectId, cardId, patch)
		},
		func() { c.invalidate(boardOf(projectId)) })
}

func (c *Client) MoveCard(ctx context.Context, projectId domain.ProjectId, cardId domain.CardId, move domain.CardMove) *Mutation[domain.Card] {
	return mutate(ctx, c, "move_card", projectScope(projectId),
		func(ctx context.Context, p domain.Principal) (domain.Card, error) {
			return c.backend.MoveCard(ctx, p, projectId, cardId, move)
		},
		func() { c.invalidate(boardOf(projectId)) })
}

func (c *Client) ArchiveCard(ctx context.Context, projectId domain.ProjectId, cardId domain.CardId) *Mutation[struct{}] {
	return mutate(ctx, c, "archive_card", projectScope(projectId),
		func(ctx context.Context, p domain.Principal) (struct{}, error) {
			return struct{}{}, c.backend.ArchiveCard(ctx, p, projectId, cardId)
		},
		func() { c.invalidate(boardOf(projectId)) })
}
