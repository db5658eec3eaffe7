package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keroxio/auth-service/internal/logging"
	"github.com/keroxio/auth-service/internal/middleware"
	"github.com/keroxio/auth-service/internal/repo"
	"github.com/keroxio/auth-service/internal/service"
	"github.com/keroxio/auth-service/internal/tokens"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register rejected", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	_, pair, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "username, email and password are required")
		case errors.Is(err, repo.ErrDuplicateUser):
			return echo.NewHTTPError(http.StatusBadRequest, "User already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "registration failed")
	}

	return c.JSON(http.StatusCreated, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login rejected", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	_, pair, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, service.ErrUserInactive):
			return echo.NewHTTPError(http.StatusForbidden, "Inactive user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		RefreshToken string `json:"refresh_token" form:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	access, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, tokens.ErrTokenInvalid), errors.Is(err, tokens.ErrTokenExpired):
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
		case errors.Is(err, service.ErrUserInactive):
			return echo.NewHTTPError(http.StatusForbidden, "Inactive user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "refresh failed")
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.UserFromContext(c)

	if err := h.Svc.Logout(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "logout failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"detail": "Successfully logged out"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.UserFromContext(c))
}

func (h *AuthHTTP) UpdateMe(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.UserFromContext(c)

	var req struct {
		Email       *string `json:"email"`
		DisplayName *string `json:"display_name"`
		Password    *string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	updated, err := h.Svc.UpdateProfile(ctx, user.ID, service.ProfileUpdate{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateUser) {
			return echo.NewHTTPError(http.StatusBadRequest, "email already in use")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "update failed")
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *AuthHTTP) DeleteMe(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.UserFromContext(c)

	if _, err := h.Svc.DeleteAccount(ctx, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "delete failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"detail": "Account deleted"})
}
