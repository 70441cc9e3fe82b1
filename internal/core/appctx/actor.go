// Package appctx provides request-scoped values extraction.
package appctx

import (
	"context"
)

// Actor contains the authenticated caller identity.
// Authorization policy is enforced upstream; the core only records
// who performed an operation.
type Actor struct {
	ID    string
	Email string
	Name  string
	Admin bool
}

type actorKey struct{}

// WithActor adds Actor to context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor returns Actor from context, or nil.
func GetActor(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorKey{}).(*Actor); ok {
		return v
	}
	return nil
}

// ActorID returns the actor identifier from context or empty string.
func ActorID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.ID
	}
	return ""
}
