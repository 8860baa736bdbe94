package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jobvault-systems/leads-backend/internal/httputil"
	"github.com/jobvault-systems/leads-backend/internal/logging"
)

var ErrInvalidToken = errors.New("invalid token")

type contextKey string

// SubjectKey is the context key under which the authenticated subject is stored.
const SubjectKey = contextKey("auth-subject")

// Claims are the JWT claims accepted on the admin API.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Guard protects the admin triage API with HS256 bearer tokens. When no
// secret is configured the guard is disabled: the original dashboard shipped
// without auth, so an empty secret keeps that behavior while logging it.
type Guard struct {
	secret  []byte
	enabled bool
	logger  *logging.Logger
}

func NewGuard(secret string, logger *logging.Logger) *Guard {
	if secret == "" {
		logger.Warn("admin auth disabled: no token secret configured")
	}
	return &Guard{
		secret:  []byte(secret),
		enabled: secret != "",
		logger:  logger,
	}
}

// Enabled reports whether token checks are active.
func (g *Guard) Enabled() bool {
	return g.enabled
}

// IssueToken mints an admin token. Used by jvctl and operational tooling.
func (g *Guard) IssueToken(subject string, ttl time.Duration) (string, error) {
	if !g.enabled {
		return "", errors.New("auth disabled: no token secret configured")
	}

	claims := Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "jobvault-leads",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}

// ValidateToken parses and verifies an HS256 token string.
func (g *Guard) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return g.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Protect wraps a handler with bearer-token validation. A disabled guard
// passes every request through untouched.
func (g *Guard) Protect(next http.Handler) http.Handler {
	if !g.enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := g.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			g.logger.WarnContext(r.Context(), "token validation failed", "error", err)
			httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), SubjectKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSubject extracts the authenticated subject from the context.
// Returns empty string if not present.
func GetSubject(ctx context.Context) string {
	if sub, ok := ctx.Value(SubjectKey).(string); ok {
		return sub
	}
	return ""
}
