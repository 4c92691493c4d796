package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/taskboard-dev/taskboard/shared/domain"
	internal_errors "github.com/taskboard-dev/taskboard/shared/errors"
	jwt_internal "github.com/taskboard-dev/taskboard/shared/jwt"
	"github.com/taskboard-dev/taskboard/shared/logger"
	"github.com/taskboard-dev/taskboard/shared/utils"
)

const AccessTokenCookie = "accessToken"

// RevocationCache is the part of the session revocation cache the middleware reads.
type RevocationCache interface {
	IsRevoked(sessionId domain.SessionId) bool
}

type key int

const principalKey key = 0

type Auth struct {
	jwtService    jwt_internal.JwtService
	revocations   RevocationCache
	secureCookies bool
}

func NewAuth(jwtService jwt_internal.JwtService, revocations RevocationCache, secureCookies bool) *Auth {
	return &Auth{
		jwtService:    jwtService,
		revocations:   revocations,
		secureCookies: secureCookies,
	}
}

// Principal attaches the caller to the request context. A missing, invalid or
// revoked token yields an anonymous principal; the service decides what that may do.
func (a *Auth) Principal() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := a.extractPrincipal(r)
			if err == errRevoked {
				a.ClearSessionCookie(w)
			}
			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NeedAuth rejects anonymous callers before the handler runs.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := a.extractPrincipal(r)
			if err != nil {
				if err == errRevoked {
					a.ClearSessionCookie(w)
				}
				utils.WriteErrorAndStatusCode(w, internal_errors.Authorization("Please sign in"))
				return
			}
			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *Auth) extractPrincipal(r *http.Request) (domain.Principal, error) {
	tokenString := TokenFromRequest(r)
	if tokenString == "" {
		return domain.Anonymous(), errNoToken
	}

	session, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		return domain.Anonymous(), err
	}

	if a.revocations != nil && a.revocations.IsRevoked(session.SessionId) {
		logger.Log.Debug("request with revoked session", "session_id", session.SessionId)
		return domain.Anonymous(), errRevoked
	}
	return session.Principal(), nil
}

var (
	errNoToken = errorString("no token")
	errRevoked = errorString("revoked")
)

type errorString string

func (e errorString) Error() string { return string(e) }

// TokenFromRequest reads the session token from the cookie used by browsers,
// falling back to a bearer token for API clients.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		return strings.TrimSpace(token)
	}
	return ""
}

func (a *Auth) SetSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     AccessTokenCookie,
		Value:    token,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *Auth) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     AccessTokenCookie,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the anonymous principal when none was attached.
func PrincipalFromContext(ctx context.Context) domain.Principal {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	if !ok {
		return domain.Anonymous()
	}
	return p
}
