package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avelichko/catalog-api/internal/tokens"
)

type BearerAuth struct {
	JWTSecret []byte
}

func NewBearerAuth(secret []byte) *BearerAuth {
	return &BearerAuth{JWTSecret: secret}
}

// RequireAuth checks the Authorization header. A missing token is 401; a
// token that is malformed, tampered with or expired is 403.
func (m *BearerAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
		}

		claims, err := tokens.AccessClaimsFromToken(strings.TrimPrefix(header, prefix), m.JWTSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "invalid or expired token")
		}

		setUserContext(c, claims)
		return next(c)
	}
}

// RequireRole gates a route on an exact role match. Must run after
// RequireAuth.
func (m *BearerAuth) RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r, _ := c.Get("role").(string); r != role {
				return echo.NewHTTPError(http.StatusForbidden, "access denied")
			}
			return next(c)
		}
	}
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set("user_id", claims.Subject)
	c.Set("role", claims.Role)
}
