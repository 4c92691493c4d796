package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskboard-dev/taskboard/backend/internal/markdown"
	"github.com/taskboard-dev/taskboard/backend/internal/service"
	"github.com/taskboard-dev/taskboard/shared/domain"
	internal_errors "github.com/taskboard-dev/taskboard/shared/errors"
	jwt_internal "github.com/taskboard-dev/taskboard/shared/jwt"
	mw "github.com/taskboard-dev/taskboard/shared/middleware"
	"github.com/taskboard-dev/taskboard/shared/utils"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// SessionStore persists session revocations so every server instance picks them up.
type SessionStore interface {
	RevokeSession(ctx context.Context, userId domain.UserId, sessionId domain.SessionId) error
}

// LocalRevocations lets this instance reject a revoked session before the next cache refresh.
type LocalRevocations interface {
	Revoke(sessionId domain.SessionId)
}

type Handler struct {
	board       service.BoardService
	health      HealthChecker
	jwt         jwt_internal.JwtService
	auth        *mw.Auth
	sessions    SessionStore
	revocations LocalRevocations
	renderer    *markdown.Renderer
}

func New(
	board service.BoardService,
	health HealthChecker,
	jwt jwt_internal.JwtService,
	auth *mw.Auth,
	sessions SessionStore,
	revocations LocalRevocations,
	renderer *markdown.Renderer,
) *Handler {
	return &Handler{
		board:       board,
		health:      health,
		jwt:         jwt,
		auth:        auth,
		sessions:    sessions,
		revocations: revocations,
		renderer:    renderer,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	utils.WriteJSON(w, http.StatusOK, v)
}

func principal(r *http.Request) domain.Principal {
	return mw.PrincipalFromContext(r.Context())
}

// idParam reads a uuid route parameter. name doubles as the noun in the error message.
func idParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, internal_errors.Validation("invalid %s id", name)
	}
	return id, nil
}
