package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/tokens"
)

const identityKey = "identity"

type Verifier interface {
	Verify(token string) (*tokens.Identity, error)
}

type Gate struct {
	Tokens Verifier
}

func NewGate(v Verifier) *Gate {
	return &Gate{Tokens: v}
}

// RequireAuth accepts only requests carrying a valid "Authorization: Bearer
// <token>" header and stores the decoded identity on the context.
func (g *Gate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("mw", "auth")

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			l.Warn("auth_error", "status", 401, "reason", "no token provided")
			return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
		}

		raw, ok := bearerToken(header)
		if !ok {
			l.Warn("auth_error", "status", 403, "reason", "malformed authorization header")
			return echo.NewHTTPError(http.StatusForbidden, "invalid token")
		}

		identity, err := g.Tokens.Verify(raw)
		if err != nil {
			l.Warn("auth_error", "status", 403, "reason", "invalid token", "error", err)
			return echo.NewHTTPError(http.StatusForbidden, "invalid token")
		}

		c.Set(identityKey, identity)
		ctx := logging.IntoContext(c.Request().Context(),
			logging.FromContext(c.Request().Context()).With("user_id", identity.ID, "role", identity.Role))
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
			}
			for _, r := range roles {
				if identity.Role == r {
					return next(c)
				}
			}
			logging.FromContext(c.Request().Context()).Warn("auth_error",
				"status", 403, "reason", "role not allowed", "role", identity.Role)
			return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
		}
	}
}

func IdentityFrom(c echo.Context) (*tokens.Identity, bool) {
	identity, ok := c.Get(identityKey).(*tokens.Identity)
	return identity, ok && identity != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
