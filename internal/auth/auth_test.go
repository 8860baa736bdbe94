package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobvault-systems/leads-backend/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.New(slog.LevelError, "text")
}

func TestIssueAndValidateToken(t *testing.T) {
	guard := NewGuard("test-secret", testLogger())

	token, err := guard.IssueToken("ops@jobvault.io", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := guard.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@jobvault.io", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "jobvault-leads", claims.Issuer)
}

func TestValidateToken_Errors(t *testing.T) {
	guard := NewGuard("test-secret", testLogger())

	t.Run("garbage token", func(t *testing.T) {
		_, err := guard.ValidateToken("not-a-jwt")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewGuard("other-secret", testLogger())
		token, err := other.IssueToken("ops@jobvault.io", time.Hour)
		require.NoError(t, err)

		_, err = guard.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := guard.IssueToken("ops@jobvault.io", -time.Minute)
		require.NoError(t, err)

		_, err = guard.ValidateToken(token)
		assert.Error(t, err)
	})
}

func TestProtect(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetSubject(r.Context())))
	})

	t.Run("disabled guard passes everything through", func(t *testing.T) {
		guard := NewGuard("", testLogger())
		assert.False(t, guard.Enabled())

		rec := httptest.NewRecorder()
		guard.Protect(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/submissions", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		guard := NewGuard("test-secret", testLogger())

		rec := httptest.NewRecorder()
		guard.Protect(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/submissions", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token injects subject", func(t *testing.T) {
		guard := NewGuard("test-secret", testLogger())
		token, err := guard.IssueToken("ops@jobvault.io", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/submissions", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		guard.Protect(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ops@jobvault.io", rec.Body.String())
	})
}
