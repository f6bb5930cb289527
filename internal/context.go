package internal

import (
	"context"
	"time"
)

// Actor is the verified identity every core operation receives explicitly.
// It is resolved once per request from token claims; services never read
// identity from ambient state.
type Actor struct {
	UserID    int64
	CompanyID int64
	Role      string
	Email     string
}

const RoleAdmin = "Admin"

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type ctxKey string

const actorKey ctxKey = "actor"

// ActorFromContext returns the authenticated actor stored by the auth middleware.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}

func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if
// duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
