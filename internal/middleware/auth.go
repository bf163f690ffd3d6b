// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/zyclope0/mathakine-sub004/internal/authz"
	"github.com/zyclope0/mathakine-sub004/internal/core"
)

type contextKey string

const (
	SubjectKey contextKey = "subject"
	RoleKey    contextKey = "role"
	ScopeKey   contextKey = "access_scope"
)

type TokenClaims struct {
	Subject string
	Role    authz.Role
}

type TokenVerifier interface {
	VerifyAccess(ctx context.Context, token string) (*TokenClaims, error)
}

// Authenticator decodes the bearer access token and stores the subject
// and role in the request context. Every failure responds with the same
// generic unauthorized error.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			claims, err := verifier.VerifyAccess(r.Context(), token)
			if err != nil {
				core.JSONError(w, core.TokenInvalidError())
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, SubjectKey, claims.Subject)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ScopeResolver recomputes the caller's access scope from live account
// state. Scope is never read from the token or any cache.
type ScopeResolver interface {
	ResolveScope(
		ctx context.Context,
		username string,
	) (authz.AccessScope, error)
}

// WithScope resolves the scope once per request and stores it for
// handlers that pass it into the permission matrix.
func WithScope(resolver ScopeResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := GetSubject(r.Context())
			if subject == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			scope, err := resolver.ResolveScope(r.Context(), subject)
			if err != nil {
				// A valid token whose account is gone is a stale
				// credential, not an internal failure.
				if errors.Is(err, core.ErrNotFound) {
					core.JSONError(
						w,
						core.UnauthorizedError("account no longer exists"),
					)
					return
				}
				core.JSONError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ScopeKey, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRank gates a route on minimum role rank. Denials are explicit.
func RequireRank(min authz.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := GetRole(r.Context())

			if !role.Valid() {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			if !role.AtLeast(min) {
				core.JSONError(
					w,
					core.ForbiddenError("insufficient permissions"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func GetSubject(ctx context.Context) string {
	if subject, ok := ctx.Value(SubjectKey).(string); ok {
		return subject
	}
	return ""
}

func GetRole(ctx context.Context) authz.Role {
	if role, ok := ctx.Value(RoleKey).(authz.Role); ok {
		return role
	}
	return 0
}

func GetScope(ctx context.Context) authz.AccessScope {
	if scope, ok := ctx.Value(ScopeKey).(authz.AccessScope); ok {
		return scope
	}
	return 0
}

func IsAuthenticated(ctx context.Context) bool {
	return GetSubject(ctx) != ""
}
