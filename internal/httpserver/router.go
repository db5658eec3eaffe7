package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/keroxio/auth-service/internal/middleware"
)

type Deps struct {
	AuthHandler *AuthHTTP
	Auth        *middleware.Auth
	CORSOrigins []string
}

func Register(e *echo.Echo, d *Deps) {
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept, "X-Requested-With"},
		AllowCredentials: true,
	}))

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/refresh", d.AuthHandler.Refresh)

	private := e.Group("")
	private.Use(d.Auth.RequireAuth)

	private.POST("/logout", d.AuthHandler.Logout)
	private.GET("/me", d.AuthHandler.Me)
	private.PATCH("/me", d.AuthHandler.UpdateMe)
	private.DELETE("/me", d.AuthHandler.DeleteMe)
}
