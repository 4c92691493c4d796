package setup

import (
	"context"

	"github.com/taskboard-dev/taskboard/backend/internal/handler"
	"github.com/taskboard-dev/taskboard/backend/internal/markdown"
	"github.com/taskboard-dev/taskboard/backend/internal/ordering"
	"github.com/taskboard-dev/taskboard/backend/internal/service"
	"github.com/taskboard-dev/taskboard/backend/internal/storage/pg"
	"github.com/taskboard-dev/taskboard/shared/config"
	"github.com/taskboard-dev/taskboard/shared/jwt"
	"github.com/taskboard-dev/taskboard/shared/logger"
	mw "github.com/taskboard-dev/taskboard/shared/middleware"
	"github.com/taskboard-dev/taskboard/shared/session"
	shared_storage "github.com/taskboard-dev/taskboard/shared/storage"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Identity       *shared_storage.Storage
	Board          service.BoardService
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
	Team           *service.TeamCache
	Revocations    *session.Revocations
}

// SetupDependencies connects to the datastore, warms both caches and starts
// their background refresh, bound to ctx.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	identity, err := shared_storage.New(ctx, cfg)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}

	team := service.NewTeamCache(storage)
	if err := team.Update(ctx); err != nil {
		logger.Log.Warn("initial team directory load failed, starting empty", "error", err)
	}
	team.StartBackgroundUpdate(ctx, cfg.Public.TeamRefreshInterval)

	revocations := session.NewRevocations(identity, cfg.SessionTTL())
	if err := revocations.Update(ctx); err != nil {
		logger.Log.Warn("initial session revocation load failed, starting empty", "error", err)
	}
	revocations.StartBackgroundUpdate(ctx, cfg.Public.RevocationRefreshInterval)
	service.NewSessionCollector(identity, cfg.SessionTTL()).StartBackgroundCleanup(ctx, cfg.Public.SessionGCInterval)

	jwtService := jwt.New(cfg.JwtKey(), cfg.SessionTTL())
	authMw := mw.NewAuth(jwtService, revocations, cfg.Public.SecureCookies)

	board := service.NewBoard(storage, team, ordering.NewClock())
	h := handler.New(board, storage, jwtService, authMw, identity, revocations, markdown.New())

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Identity:       identity,
		Board:          board,
		Handler:        h,
		AuthMiddleware: authMw,
		Team:           team,
		Revocations:    revocations,
	}, nil
}

func (d *Dependencies) Cleanup() {
	if d.Storage != nil {
		d.Storage.Cleanup()
	}
	if d.Identity != nil {
		d.Identity.Cleanup()
	}
}
