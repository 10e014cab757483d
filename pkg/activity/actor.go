package activity

import (
	"context"
	"strings"
)

// Actor identifies who performed a mutation.
type Actor struct {
	ActorID  string
	UserID   string
	TenantID string
}

type actorKey struct{}

// WithActor returns a context carrying actor. Emitters copy it onto events
// that do not name an actor explicitly.
func WithActor(ctx context.Context, actor Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext extracts the actor stored by WithActor.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

func (a Actor) apply(event Event) Event {
	if strings.TrimSpace(event.ActorID) == "" {
		event.ActorID = a.ActorID
	}
	if strings.TrimSpace(event.UserID) == "" {
		event.UserID = a.UserID
	}
	if strings.TrimSpace(event.TenantID) == "" {
		event.TenantID = a.TenantID
	}
	return event
}
