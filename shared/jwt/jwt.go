// Package jwt issues and decodes session tokens. A token names a user and the
// session it belongs to; revoking the session invalidates the token early.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/taskboard-dev/taskboard/shared/domain"
	internal_errors "github.com/taskboard-dev/taskboard/shared/errors"
	"github.com/taskboard-dev/taskboard/shared/logger"
)

type Session struct {
	UserId    domain.UserId
	SessionId domain.SessionId
	ExpiresAt time.Time
}

func (s Session) Principal() domain.Principal {
	return domain.Authenticated(s.UserId, s.SessionId)
}

type JwtService interface {
	NewToken(userId domain.UserId, sessionId domain.SessionId) (string, time.Time, error)
	DecodeToken(jwtStr string) (Session, error)
	// Refresh reissues a still valid token for the same session with a new expiry.
	Refresh(jwtStr string) (string, Session, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

func New(secretKey string, ttl time.Duration) JwtService {
	return &Jwt{secretKey: secretKey, ttl: ttl, now: time.Now}
}

func (j *Jwt) NewToken(userId domain.UserId, sessionId domain.SessionId) (string, time.Time, error) {
	now := j.now()
	expiresAt := now.Add(j.ttl)
	claims := jwt.MapClaims{}
	claims["uid"] = userId.String()
	claims["sid"] = sessionId.String()
	claims["iat"] = now.Unix()
	claims["exp"] = expiresAt.Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign session token", "error", err)
		return "", time.Time{}, fmt.Errorf("can't create token: %w", err)
	}
	return tokenString, time.Unix(expiresAt.Unix(), 0), nil
}

func (j *Jwt) DecodeToken(jwtStr string) (Session, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		return []byte(j.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		logger.Log.Debug("rejected session token", "error", err)
		return Session{}, internal_errors.Authorization("Session expired or invalid, please sign in again")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, errInvalidClaims
	}
	userId, err := uuidClaim(claims, "uid")
	if err != nil {
		return Session{}, err
	}
	sessionId, err := uuidClaim(claims, "sid")
	if err != nil {
		return Session{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return Session{}, errInvalidClaims
	}
	return Session{UserId: userId, SessionId: sessionId, ExpiresAt: exp.Time}, nil
}

func (j *Jwt) Refresh(jwtStr string) (string, Session, error) {
	session, err := j.DecodeToken(jwtStr)
	if err != nil {
		return "", Session{}, err
	}
	token, expiresAt, err := j.NewToken(session.UserId, session.SessionId)
	if err != nil {
		return "", Session{}, err
	}
	session.ExpiresAt = expiresAt
	return token, session, nil
}

var errInvalidClaims = internal_errors.Authorization("Invalid token")

func uuidClaim(claims jwt.MapClaims, name string) (uuid.UUID, error) {
	raw, ok := claims[name].(string)
	if !ok {
		return uuid.Nil, errInvalidClaims
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errInvalidClaims
	}
	return id, nil
}
