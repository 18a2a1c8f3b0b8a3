// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// Actor is the authenticated identity attached to a request by the session
// capability: a role plus the district the actor operates in. The engine
// never issues sessions; it only consumes this value.
type Actor struct {
	Role     string // "citizen", "phc" or "lab"
	District string
}

// ActorKey is the context key for the actor.
type ActorKey struct{}

// WithActor returns a context with the actor embedded.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, ActorKey{}, actor)
}

// ActorFromContext returns the actor from context, or the zero Actor if not set.
func ActorFromContext(ctx context.Context) Actor {
	if v := ctx.Value(ActorKey{}); v != nil {
		return v.(Actor)
	}
	return Actor{}
}
