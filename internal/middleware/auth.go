// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/carterperez-dev/saasify-contacts/internal/core"
)

const (
	PrincipalKey contextKey = "principal"
)

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

// UserResolver looks a user up in the credential store and reports the
// tenant it belongs to. core.ErrNotFound means the account is gone.
type UserResolver interface {
	TenantOf(ctx context.Context, userID string) (string, error)
}

type AccessTokenClaims struct {
	UserID   string
	TenantID string
	Role     core.Role
}

// Authenticate turns a raw Authorization header into a Principal. Every
// failure, including a token whose user no longer exists, is reported as
// core.ErrUnauthorized.
func Authenticate(
	ctx context.Context,
	verifier TokenVerifier,
	users UserResolver,
	rawHeader string,
) (core.Principal, error) {
	token := parseBearer(rawHeader)
	if token == "" {
		return core.Principal{}, fmt.Errorf(
			"authenticate: missing bearer token: %w",
			core.ErrUnauthorized,
		)
	}

	claims, err := verifier.VerifyAccessToken(ctx, token)
	if err != nil {
		return core.Principal{}, fmt.Errorf(
			"authenticate: %w: %w",
			core.ErrUnauthorized,
			err,
		)
	}

	tenantID, err := users.TenantOf(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Principal{}, fmt.Errorf(
				"authenticate: user no longer exists: %w",
				core.ErrUnauthorized,
			)
		}
		return core.Principal{}, fmt.Errorf("authenticate: resolve user: %w", err)
	}

	if tenantID != claims.TenantID {
		return core.Principal{}, fmt.Errorf(
			"authenticate: tenant mismatch: %w",
			core.ErrUnauthorized,
		)
	}

	return core.Principal{
		UserID:   claims.UserID,
		TenantID: claims.TenantID,
		Role:     claims.Role,
	}, nil
}

func Authenticator(
	verifier TokenVerifier,
	users UserResolver,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := Authenticate(
				r.Context(),
				verifier,
				users,
				r.Header.Get("Authorization"),
			)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole must be mounted after Authenticator.
func RequireRole(roles ...core.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := core.Authorize(GetPrincipal(r.Context()), roles...)
			if err != nil {
				if errors.Is(err, core.ErrUnauthorized) {
					core.JSONError(w, core.UnauthorizedError(""))
					return
				}
				core.JSONError(w, core.ForbiddenError(""))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(core.RoleAdmin)(next)
}

func parseBearer(authHeader string) string {
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	case errors.Is(err, core.ErrUnauthorized):
		core.JSONError(w, core.UnauthorizedError(""))
	default:
		core.InternalServerError(w, err)
	}
}

func WithPrincipal(ctx context.Context, p core.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

func GetPrincipal(ctx context.Context) core.Principal {
	if p, ok := ctx.Value(PrincipalKey).(core.Principal); ok {
		return p
	}
	return core.Principal{}
}
