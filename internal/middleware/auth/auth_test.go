package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/tokens"
)

var testSecret = []byte("auth-test-secret")

func newTestEcho() *echo.Echo {
	e := echo.New()
	gate := NewGate(tokens.NewService(testSecret))

	e.GET("/me", func(c echo.Context) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, id)
	}, gate.RequireAuth)
	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, gate.RequireAuth, RequireRole(models.RoleAdmin))
	e.GET("/unguarded", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RequireRole(models.RoleAdmin))
	return e
}

func issue(t *testing.T, secret []byte, id tokens.Identity) string {
	t.Helper()
	tok, _, err := tokens.NewService(secret).Issue(id)
	require.NoError(t, err)
	return tok
}

func do(e *echo.Echo, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	e := newTestEcho()
	userTok := issue(t, testSecret, tokens.Identity{ID: 7, Role: models.RoleUser})

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokens.Claims{
		ID:   7,
		Role: models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized, body: "no token provided"},
		{name: "wrong scheme", header: "Basic " + userTok, status: http.StatusForbidden, body: "invalid token"},
		{name: "bearer without token", header: "Bearer", status: http.StatusForbidden, body: "invalid token"},
		{name: "garbage", header: "Bearer not.a.jwt", status: http.StatusForbidden, body: "invalid token"},
		{name: "foreign secret", header: "Bearer " + issue(t, []byte("other"), tokens.Identity{ID: 7, Role: "user"}), status: http.StatusForbidden, body: "invalid token"},
		{name: "expired", header: "Bearer " + expired, status: http.StatusForbidden, body: "invalid token"},
		{name: "valid", header: "Bearer " + userTok, status: http.StatusOK, body: `"id":7`},
		{name: "lowercase scheme", header: "bearer " + userTok, status: http.StatusOK, body: `"role":"user"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, "/me", tt.header)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestRequireRole(t *testing.T) {
	e := newTestEcho()

	rec := do(e, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, "/admin", "Bearer "+issue(t, testSecret, tokens.Identity{ID: 1, Role: models.RoleUser}))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, "/admin", "Bearer "+issue(t, testSecret, tokens.Identity{ID: 1, Role: models.RoleAdmin}))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, "/unguarded", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
