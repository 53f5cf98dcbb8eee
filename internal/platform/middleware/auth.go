package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	id "condogov/pkg/domain"
	"condogov/pkg/requestcontext"
)

// JWTValidator defines the interface for validating JWT tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator.
type JWTClaims struct {
	StakeholderID string
	Role          string
}

// GetStakeholderID retrieves the authenticated stakeholder ID from the
// context, or the zero ID when unauthenticated.
func GetStakeholderID(ctx context.Context) id.StakeholderID {
	return requestcontext.StakeholderID(ctx)
}

// RequireAuth validates the bearer token and injects the stakeholder ID into
// the request context. Token issuance lives outside this service; only
// validation happens here.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				unauthorized(w, r, logger, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				unauthorized(w, r, logger, "Invalid or expired token")
				return
			}

			stakeholderID, err := id.ParseStakeholderID(claims.StakeholderID)
			if err != nil {
				unauthorized(w, r, logger, "Invalid subject claim")
				return
			}

			ctx := requestcontext.WithStakeholderID(r.Context(), stakeholderID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, logger *slog.Logger, desc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if _, err := w.Write([]byte(`{"error":"unauthorized","error_description":"` + desc + `"}`)); err != nil {
		logger.ErrorContext(r.Context(), "failed to write unauthorized response",
			"error", err,
			"request_id", GetRequestID(r.Context()),
		)
	}
}
