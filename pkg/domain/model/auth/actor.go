package auth

import (
	"context"

	"github.com/grc-lab/periksa/pkg/domain/types"
)

// Role is the role string supplied by the external identity collaborator
type Role string

const (
	RoleMember     Role = "member"
	RoleConsultant Role = "consultant"
	RoleAdmin      Role = "admin"
)

// Actor is the identity and capability set of the caller. The engine
// never reads identity from ambient state; every operation receives the
// actor explicitly so behavior stays deterministic under test.
type Actor struct {
	UserID types.UserID
	Role   Role
}

// CanReview reports whether the actor may drive the review state
// machine, edit consultant notes or set manual scores
func (a Actor) CanReview() bool {
	return a.Role == RoleConsultant || a.Role == RoleAdmin
}

// CanAdmin reports whether the actor may change quota limits
func (a Actor) CanAdmin() bool {
	return a.Role == RoleAdmin
}

// NewAnonymousActor returns the development-mode actor used when no
// identity headers are present and no-auth mode is enabled
func NewAnonymousActor(uid types.UserID) Actor {
	return Actor{UserID: uid, Role: RoleAdmin}
}

type ctxActorKey struct{}

// ContextWithActor stores the actor in the request context
func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, ctxActorKey{}, actor)
}

// ActorFromContext retrieves the actor from the request context
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(ctxActorKey{}).(Actor)
	return actor, ok
}
