package domain

import "github.com/google/uuid"

// Principal is the caller identity handed to every board operation.
// The zero value is an unauthenticated principal.
type Principal struct {
	UserId        UserId
	SessionId     SessionId
	Authenticated bool
}

func Anonymous() Principal {
	return Principal{}
}

func Authenticated(userId UserId, sessionId SessionId) Principal {
	return Principal{UserId: userId, SessionId: sessionId, Authenticated: userId != uuid.Nil}
}
