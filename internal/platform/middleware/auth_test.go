package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "condogov/pkg/domain"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (v stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return v.claims, v.err
}

func authHandler(validator JWTValidator, captured *id.StakeholderID) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = GetStakeholderID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return RequireAuth(validator, logger)(next)
}

func TestRequireAuth(t *testing.T) {
	t.Run("valid token injects stakeholder", func(t *testing.T) {
		stakeholderID := uuid.NewString()
		var captured id.StakeholderID
		handler := authHandler(stubValidator{claims: &JWTClaims{StakeholderID: stakeholderID}}, &captured)

		req := httptest.NewRequest(http.MethodGet, "/processes", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, stakeholderID, captured.String())
	})

	t.Run("missing header", func(t *testing.T) {
		var captured id.StakeholderID
		handler := authHandler(stubValidator{}, &captured)

		req := httptest.NewRequest(http.MethodGet, "/processes", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		var captured id.StakeholderID
		handler := authHandler(stubValidator{}, &captured)

		req := httptest.NewRequest(http.MethodGet, "/processes", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("validator rejects token", func(t *testing.T) {
		var captured id.StakeholderID
		handler := authHandler(stubValidator{err: errors.New("expired")}, &captured)

		req := httptest.NewRequest(http.MethodGet, "/processes", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("claims without valid subject", func(t *testing.T) {
		var captured id.StakeholderID
		handler := authHandler(stubValidator{claims: &JWTClaims{StakeholderID: "not-a-uuid"}}, &captured)

		req := httptest.NewRequest(http.MethodGet, "/processes", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
