package boardsync

import (
	"context"
	"sync"
	"time"

	"github.com/taskboard-dev/taskboard/shared/domain"
	"github.com/taskboard-dev/taskboard/shared/logger"
	"golang.org/x/sync/singleflight"
)

const defaultFetchTimeout = 30 * time.Second

type entry struct {
	scope     scope
	status    Status
	data      any
	err       error
	stale     bool
	gen       uint64
	fetch     func(ctx context.Context) (any, error)
	updatedAt time.Time
}

type Client struct {
	backend  Backend
	identity IdentityProvider

	mu      sync.Mutex
	entries map[Key]*entry
	// tails holds the completion channel of the last mutation submitted per scope
	tails map[string]chan struct{}

	group        singleflight.Group
	fetchTimeout time.Duration
	now          func() time.Time
}

type Option func(*Client)

// WithFetchTimeout bounds every fetch, including the ones no caller waits for.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Client) { c.fetchTimeout = d }
}

func New(backend Backend, identity IdentityProvider, opts ...Option) *Client {
	c := &Client{
		backend:      backend,
		identity:     identity,
		entries:      make(map[Key]*entry),
		tails:        make(map[string]chan struct{}),
		fetchTimeout: defaultFetchTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Projects lists the current principal's projects.
func (c *Client) Projects(ctx context.Context) ([]domain.Project, error) {
	p := c.identity.CurrentPrincipal()
	return read(ctx, c, ProjectsKey(p.UserId), scope{kind: kindProjects}, func(ctx context.Context) ([]domain.Project, error) {
		return c.backend.ListProjects(ctx, p)
	})
}

func (c *Client) Board(ctx context.Context, projectId domain.ProjectId) (domain.Board, error) {
	p := c.identity.CurrentPrincipal()
	return read(ctx, c, BoardKey(p.UserId, projectId), scope{kind: kindBoard, projectId: projectId}, func(ctx context.Context) (domain.Board, error) {
		return c.backend.GetBoard(ctx, p, projectId)
	})
}

// State reports the cached state of key without fetching.
func (c *Client) State(key Key) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return State{Status: StatusIdle}
	}
	switch e.status {
	case StatusSuccess:
		return State{Status: StatusSuccess, Data: e.data, Err: e.err, Stale: e.stale, UpdatedAt: e.updatedAt}
	case StatusError:
		s := errorState(e.err)
		s.UpdatedAt = e.updatedAt
		return s
	default:
		return State{Status: e.status}
	}
}

// read serves cached data when there is any, refetching stale entries in the
// background. Misses are fetched once per key no matter how many callers wait.
// A caller that gives up through ctx leaves the shared fetch running.
func read[T any](ctx context.Context, c *Client, key Key, sc scope, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{scope: sc}
		c.entries[key] = e
	}
	e.fetch = func(ctx context.Context) (any, error) { return fetch(ctx) }
	if e.status == StatusSuccess {
		data := e.data.(T)
		if e.stale {
			cacheReads.WithLabelValues("stale").Inc()
			c.startFetchLocked(key)
		} else {
			cacheReads.WithLabelValues("hit").Inc()
		}
		c.mu.Unlock()
		return data, nil
	}
	cacheReads.WithLabelValues("miss").Inc()
	ch := c.startFetchLocked(key)
	c.mu.Unlock()

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// startFetchLocked joins the in-flight fetch for key or starts one.
func (c *Client) startFetchLocked(key Key) <-chan singleflight.Result {
	return c.group.DoChan(string(key), func() (any, error) {
		return c.load(key)
	})
}

func (c *Client) load(key Key) (any, error) {
	c.mu.Lock()
	e := c.entries[key]
	gen, fetch := e.gen, e.fetch
	if e.status != StatusSuccess {
		e.status = StatusPending
	}
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
	defer cancel()
	data, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if e.status == StatusSuccess {
			// keep serving what we have
			e.err = err
			refetchFailures.Inc()
			logger.Log.Warn("background refetch failed", "component", "boardsync", "key", string(key), "error", err)
		} else {
			e.status, e.err, e.updatedAt = StatusError, err, c.now()
		}
		return nil, err
	}

	e.status, e.data, e.err, e.updatedAt = StatusSuccess, data, nil, c.now()
	e.stale = e.gen != gen
	if e.stale {
		// invalidated while in flight: the result may predate the mutation
		c.group.Forget(string(key))
		c.startFetchLocked(key)
	}
	return data, nil
}

// invalidate marks every entry matching pred stale and refetches the ones holding data.
// Entries in error are left for the next read to retry.
func (c *Client) invalidate(pred func(scope) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if !pred(e.scope) {
			continue
		}
		// a fetch still in flight sees the new generation and starts over
		e.gen++
		if e.status == StatusSuccess {
			e.stale = true
			c.startFetchLocked(key)
		}
	}
}

func projectLists(s scope) bool {
	return s.kind == kindProjects
}

func boardOf(projectId domain.ProjectId) func(scope) bool {
	return func(s scope) bool {
		return s.kind == kindBoard && s.projectId == projectId
	}
}
