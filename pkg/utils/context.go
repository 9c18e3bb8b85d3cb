package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const sessionKey contextKey = "session"

// Session is the authenticated caller, attached to the request context by the
// auth middleware and torn down with the request.
type Session struct {
	UserID uuid.UUID
	Role   string
	Token  string
}

func (s Session) IsAdmin() bool {
	return s.Role == "admin"
}

func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionKey).(Session)
	if !ok || session.UserID == uuid.Nil {
		return Session{}, false
	}
	return session, true
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	session, ok := SessionFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return session.UserID, true
}
