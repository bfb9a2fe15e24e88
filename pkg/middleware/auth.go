package middleware

import (
	"context"
	"net/http"
	"strings"

	"court-booking/pkg/auth"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

// TokenVerifier resolves the principal behind a bearer token.
type TokenVerifier interface {
	Verify(token string) (*auth.Principal, error)
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// Authenticate requires a valid bearer token and stores the principal in
// the request context.
func Authenticate(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				utils.ResponseUnauthorized(w, "Missing or malformed authorization token. Use: Bearer <token>")
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				logger.Warn("Rejected access token",
					zap.Error(err),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(withPrincipal(r, principal)))
		})
	}
}

// OptionalAuthenticate sets the principal when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuthenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				if principal, err := verifier.Verify(token); err == nil {
					r = r.WithContext(withPrincipal(r, principal))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withPrincipal(r *http.Request, p *auth.Principal) context.Context {
	ctx := utils.SetUserContext(r.Context(), p.UserID, p.Role)
	if p.Email != "" {
		ctx = utils.SetEmailContext(ctx, p.Email)
	}
	return ctx
}

// RequireRole rejects principals whose token role is not in roles
func RequireRole(logger *zap.Logger, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			role, _ := utils.GetRoleFromContext(r.Context())
			if _, ok := allowed[role]; !ok {
				fields := []zap.Field{
					zap.String("user_id", userID.String()),
					zap.String("role", role),
					zap.String("path", r.URL.Path),
				}
				if email, ok := utils.GetEmailFromContext(r.Context()); ok {
					fields = append(fields, zap.String("email", email))
				}
				logger.Warn("Role check: access denied", fields...)
				utils.ResponseForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
