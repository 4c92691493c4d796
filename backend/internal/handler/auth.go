package handler

import (
	"net/http"

	"github.com/taskboard-dev/taskboard/shared/api"
	internal_errors "github.com/taskboard-dev/taskboard/shared/errors"
	"github.com/taskboard-dev/taskboard/shared/logger"
	mw "github.com/taskboard-dev/taskboard/shared/middleware"
	"github.com/taskboard-dev/taskboard/shared/utils"
)

// Refresh reissues the caller's token for the same session. The route sits behind
// NeedAuth, so revoked sessions never reach it.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, session, err := h.jwt.Refresh(mw.TokenFromRequest(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	h.auth.SetSessionCookie(w, token, session.ExpiresAt)
	writeJSON(w, api.RefreshResponse{AccessToken: token, ExpiresAt: session.ExpiresAt})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	if err := h.sessions.RevokeSession(r.Context(), p.UserId, p.SessionId); err != nil {
		utils.WriteErrorAndStatusCode(w, internal_errors.Transient("Could not sign out, please retry", err))
		return
	}
	h.revocations.Revoke(p.SessionId)
	logger.Log.Info("session revoked", "user_id", p.UserId, "session_id", p.SessionId)

	h.auth.ClearSessionCookie(w)
	writeJSON(w, api.LogoutResponse{Message: "Signed out"})
}
