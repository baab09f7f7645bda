package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func signed(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func serve(m *Middleware, header string) (*httptest.ResponseRecorder, string) {
	var subject string
	h := m.ValidateToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/ui/actions/makeCoffee", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr, subject
}

func TestDisabledMiddlewarePassesThrough(t *testing.T) {
	rr, _ := serve(NewMiddleware(""), "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestValidToken(t *testing.T) {
	token := signed(t, secret, jwt.MapClaims{
		"sub": "barista-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	rr, subject := serve(NewMiddleware(secret), "Bearer "+token)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "barista-1", subject)
}

func TestRejectedTokens(t *testing.T) {
	expired := signed(t, secret, jwt.MapClaims{"sub": "x", "exp": time.Now().Add(-time.Hour).Unix()})
	wrongKey := signed(t, "other", jwt.MapClaims{"sub": "x"})

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"not bearer", "Basic abc"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
		{"garbage", "Bearer not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, _ := serve(NewMiddleware(secret), tt.header)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}
