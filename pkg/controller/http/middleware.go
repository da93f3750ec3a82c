package http

import (
	"net/http"

	"github.com/grc-lab/periksa/pkg/domain/model/auth"
	"github.com/grc-lab/periksa/pkg/domain/types"
)

// identityMiddleware builds the actor from the trusted identity headers
// set by the fronting proxy. When no headers are present and a no-auth
// UID is configured, the request runs as that development actor.
func identityMiddleware(noAuthUID types.UserID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := types.UserID(r.Header.Get("X-User-Id"))
			if uid == "" {
				if noAuthUID == "" {
					http.Error(w, "Authentication required", http.StatusUnauthorized)
					return
				}
				actor := auth.NewAnonymousActor(noAuthUID)
				ctx := auth.ContextWithActor(r.Context(), actor)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			role, ok := parseRole(r.Header.Get("X-User-Role"))
			if !ok {
				http.Error(w, "Unknown role", http.StatusBadRequest)
				return
			}

			actor := auth.Actor{UserID: uid, Role: role}
			ctx := auth.ContextWithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// parseRole maps the role header to a capability role. An absent header
// means a regular member.
func parseRole(value string) (auth.Role, bool) {
	switch auth.Role(value) {
	case "":
		return auth.RoleMember, true
	case auth.RoleMember:
		return auth.RoleMember, true
	case auth.RoleConsultant:
		return auth.RoleConsultant, true
	case auth.RoleAdmin:
		return auth.RoleAdmin, true
	default:
		return "", false
	}
}

// actorFrom extracts the actor placed by identityMiddleware. Handlers
// behind the middleware can rely on it being present.
func actorFrom(r *http.Request) auth.Actor {
	actor, _ := auth.ActorFromContext(r.Context())
	return actor
}
