package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/keroxio/auth-service/internal/service"
)

const userContextKey = "user"

// BearerToken extracts the presented credential, preferring the
// Authorization bearer header over the OAuth2-style form parameter.
// The fallback reads POST form bodies only, never the query string, so
// tokens cannot end up in URL logs.
func BearerToken(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	if c.Request().Method != http.MethodPost {
		return ""
	}
	return c.Request().PostFormValue("access_token")
}

type Auth struct {
	Resolver *service.IdentityResolver
}

func NewAuth(resolver *service.IdentityResolver) *Auth {
	return &Auth{Resolver: resolver}
}

func (m *Auth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := m.Resolver.Resolve(c.Request().Context(), BearerToken(c))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotAuthenticated):
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			case errors.Is(err, service.ErrInvalidToken):
				return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
			case errors.Is(err, service.ErrUserInactive):
				return echo.NewHTTPError(http.StatusForbidden, "Inactive user")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

// OptionalAuth resolves an identity when one is presented and usable,
// and lets the request through anonymously otherwise.
func (m *Auth) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if user := m.Resolver.ResolveOptional(c.Request().Context(), BearerToken(c)); user != nil {
			c.Set(userContextKey, user)
		}
		return next(c)
	}
}
