package storage

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard-dev/taskboard/shared/config"
	"github.com/taskboard-dev/taskboard/shared/domain"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var storage *Storage

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:15.3-alpine",
		postgres.WithInitScripts(filepath.Join("..", "..", "backend", "internal", "storage", "pg", "migrations", "init.sql")),
		postgres.WithDatabase("taskboard"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("failed to start container: %s", err)
	}
	mapped, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		log.Fatalf("failed to obtain container port: %s", err)
	}
	port, err := strconv.Atoi(mapped.Port())
	if err != nil {
		log.Fatalf("failed to obtain int container port: %s", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("failed to obtain container host: %s", err)
	}

	cfg := &config.Config{Private: config.Private{Pg: config.Pg{Host: host, Port: port, User: "user", Password: "password", Dbname: "taskboard"}}}
	storage, err = New(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres container: %s", err)
	}

	exitCode := m.Run()
	storage.Cleanup()
	if err := container.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %s", err)
	}
	os.Exit(exitCode)
}

func TestRevokedSessions(t *testing.T) {
	ctx := context.Background()
	userId, sessionId := uuid.New(), uuid.New()
	before := time.Now().Add(-time.Minute)

	require.NoError(t, storage.RevokeSession(ctx, userId, sessionId))
	require.NoError(t, storage.RevokeSession(ctx, userId, sessionId), "revoking twice is fine")

	ids, err := storage.RecentlyRevokedSessions(ctx, before)
	require.NoError(t, err)
	assert.Contains(t, ids, domain.SessionId(sessionId))

	ids, err = storage.RecentlyRevokedSessions(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.NotContains(t, ids, domain.SessionId(sessionId))

	pruned, err := storage.PruneRevokedSessions(ctx, before)
	require.NoError(t, err)
	assert.Zero(t, pruned)

	pruned, err = storage.PruneRevokedSessions(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pruned, int64(1))

	ids, err = storage.RecentlyRevokedSessions(ctx, before)
	require.NoError(t, err)
	assert.NotContains(t, ids, domain.SessionId(sessionId))
}

func TestAddTeamMember(t *testing.T) {
	ctx := context.Background()
	userId := uuid.New()
	require.NoError(t, storage.AddTeamMember(ctx, userId))
	require.NoError(t, storage.AddTeamMember(ctx, userId))

	var count int
	require.NoError(t, storage.db.QueryRowContext(ctx, "SELECT count(*) FROM team_members WHERE user_id = $1", userId).Scan(&count))
	assert.Equal(t, 1, count)
}
