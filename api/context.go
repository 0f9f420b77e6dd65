package api

import (
	"context"
)

type keyType string

const sessionKey keyType = "session"

// Session is the authenticated admin identity carried on the request context
// once the auth middleware has validated the token.
type Session struct {
	Email string
	Name  string
	Role  string
}

// ctxWithSession adds the authenticated session to the context
func ctxWithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// sessionFromCtx retrieves the authenticated session from the context
func sessionFromCtx(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionKey).(Session)
	return session, ok
}
