package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/infrastructure/auth"
	"github.com/iho/ledgerlogic/internal/infrastructure/metrics"
)

// TokenVerifier is satisfied by *auth.JWTManager.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// Authenticator attaches the caller to the request context.
type Authenticator struct {
	verifier TokenVerifier
	enabled  bool
	metrics  *metrics.Metrics
}

// NewAuthenticator creates an Authenticator. When enabled is false every
// request runs as domain.SystemUser.
func NewAuthenticator(verifier TokenVerifier, enabled bool, m *metrics.Metrics) *Authenticator {
	return &Authenticator{verifier: verifier, enabled: enabled, metrics: m}
}

// Authenticate requires a valid bearer token when authentication is enabled.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.enabled {
			next.ServeHTTP(w, r.WithContext(domain.WithUser(r.Context(), domain.SystemUser)))
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			a.reject(w, r, "missing_header", "missing authorization header")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			a.reject(w, r, "malformed_header", "invalid authorization header format")
			return
		}

		claims, err := a.verifier.Verify(token)
		if err != nil {
			reason := "invalid"
			if errors.Is(err, domain.ErrExpiredToken) {
				reason = "expired"
			}
			a.reject(w, r, reason, err.Error())
			return
		}

		user := claims.User()
		ctx := domain.WithUser(r.Context(), user)
		log.Ctx(ctx).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("user_id", user.ID)
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) reject(w http.ResponseWriter, r *http.Request, reason, message string) {
	if a.metrics != nil {
		a.metrics.AuthFailures.WithLabelValues(reason).Inc()
	}
	log.Ctx(r.Context()).Debug().Str("reason", reason).Msg("authentication failed")
	writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// RequireRole rejects callers whose role ranks below min.
func RequireRole(min domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := domain.UserFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", domain.ErrUnauthorized.Error())
				return
			}

			if !user.Role.AtLeast(min) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", domain.ErrInsufficientRole.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
