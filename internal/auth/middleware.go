package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bushra/buzzhub/internal/model"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the principal stored in a request context.
type contextKey string

const principalKey contextKey = "principal"

// RoleStore looks up a principal's assigned role. A principal with no user
// record gets model.RoleUnset, never an error; unknown means least privilege.
type RoleStore interface {
	RoleOf(ctx context.Context, email string) (model.Role, error)
}

// Authenticate enforces authentication on protected routes.
//
// It verifies the Authorization header, stores the principal's email in the
// request context, and short-circuits with 401 if the credential is missing
// or invalid. Nothing after this middleware runs for an unauthenticated
// request.
func Authenticate(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, err := verifier.Verify(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				writeGateError(w, http.StatusUnauthorized, "valid authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole authorizes the authenticated principal by exact role match.
//
// Exact match is deliberate: an admin is NOT treated as a manager. The role
// check is a switch over a closed enumeration, so a new role can't silently
// satisfy an existing gate. Must run after Authenticate.
func RequireRole(roles RoleStore, required model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeGateError(w, http.StatusUnauthorized, "valid authentication required")
				return
			}

			role, err := roles.RoleOf(r.Context(), email)
			if err != nil {
				writeGateError(w, http.StatusBadGateway, "role lookup unavailable, please retry")
				return
			}
			if role != required {
				writeGateError(w, http.StatusForbidden,
					fmt.Sprintf("%s role required", required))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFromContext retrieves the authenticated principal's email.
// Returns ("", false) if the request never passed Authenticate.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(principalKey).(string)
	return email, ok && email != ""
}

// WithPrincipal returns a context carrying the given principal email.
// Used by tests to exercise handlers without the full middleware chain.
func WithPrincipal(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, principalKey, email)
}

func writeGateError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"message":%q}`, message)
}
