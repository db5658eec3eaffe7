package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/keroxio/auth-service/internal/models"
)

// UserFromContext returns the identity set by RequireAuth/OptionalAuth,
// or nil for anonymous requests.
func UserFromContext(c echo.Context) *models.User {
	if user, ok := c.Get(userContextKey).(*models.User); ok {
		return user
	}
	return nil
}
