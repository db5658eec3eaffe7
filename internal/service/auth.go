package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/keroxio/auth-service/internal/events"
	"github.com/keroxio/auth-service/internal/hash"
	"github.com/keroxio/auth-service/internal/logging"
	"github.com/keroxio/auth-service/internal/models"
	"github.com/keroxio/auth-service/internal/repo"
	"github.com/keroxio/auth-service/internal/tokens"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *tokens.Service
	Hasher hash.Hasher
	Events *events.Producer
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ProfileUpdate carries a partial profile change; nil fields are left
// untouched.
type ProfileUpdate struct {
	Email       *string
	DisplayName *string
	Password    *string
}

func (s *AuthService) issuePair(user *models.User) (*TokenPair, error) {
	access, err := s.Tokens.IssueAccess(user.ID.String(), user.Email, user.DisplayName)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Tokens.IssueRefresh(user.ID.String())
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, *TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if username == "" || email == "" || password == "" {
		return nil, nil, ErrValidation
	}

	pwHash, err := s.Hasher.HashPassword(password)
	if err != nil {
		l.Error("register failed", "reason", "cannot hash password", "error", err)
		return nil, nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		IsActive:     true,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicateUser) {
			l.Warn("register conflict", "username", username)
		} else {
			l.Error("register failed", "error", err)
		}
		return nil, nil, err
	}

	pair, err := s.issuePair(user)
	if err != nil {
		l.Error("register failed", "reason", "cannot sign tokens", "error", err)
		return nil, nil, err
	}

	if err := s.Events.Publish(ctx, events.UserEvent{
		Type:     events.TypeUserRegistered,
		UserID:   user.ID.String(),
		Username: user.Username,
	}); err != nil {
		l.Error("event publish failed", "error", err)
	}

	l.Info("user registered", "user_id", user.ID)
	return user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, *TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, nil, ErrValidation
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("login failed", "reason", "unknown username")
			return nil, nil, ErrInvalidCredentials
		}
		l.Error("login failed", "error", err)
		return nil, nil, err
	}
	if !s.Hasher.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "reason", "wrong password")
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		l.Warn("login failed", "reason", "inactive user")
		return nil, nil, ErrUserInactive
	}

	pair, err := s.issuePair(user)
	if err != nil {
		l.Error("login failed", "reason", "cannot sign tokens", "error", err)
		return nil, nil, err
	}

	if err := s.Events.Publish(ctx, events.UserEvent{
		Type:     events.TypeUserLoggedIn,
		UserID:   user.ID.String(),
		Username: user.Username,
	}); err != nil {
		l.Error("event publish failed", "error", err)
	}

	l.Info("login successful", "user_id", user.ID)
	return user, pair, nil
}

// Refresh exchanges a refresh-typed token for a fresh access token. The
// user must still exist and be active.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Tokens.Verify(refreshToken, tokens.TypeRefresh)
	if err != nil {
		l.Warn("refresh rejected", "error", err)
		return "", err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", tokens.ErrTokenInvalid
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return "", tokens.ErrTokenInvalid
		}
		l.Error("refresh failed", "error", err)
		return "", err
	}
	if !user.IsActive {
		return "", ErrUserInactive
	}

	access, err := s.Tokens.IssueAccess(user.ID.String(), user.Email, user.DisplayName)
	if err != nil {
		l.Error("refresh failed", "reason", "cannot sign token", "error", err)
		return "", err
	}
	return access, nil
}

// Logout is a no-op: tokens are stateless bearer credentials and stay
// valid until natural expiry. There is no revocation store.
func (s *AuthService) Logout(ctx context.Context, user *models.User) error {
	logging.FromContext(ctx).Info("logout acknowledged", "user_id", user.ID)
	return nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.update_profile", "user_id", id)

	repoUpd := repo.UserUpdate{
		Email:       upd.Email,
		DisplayName: upd.DisplayName,
	}
	if upd.Password != nil {
		pwHash, err := s.Hasher.HashPassword(*upd.Password)
		if err != nil {
			l.Error("update failed", "reason", "cannot hash password", "error", err)
			return nil, err
		}
		repoUpd.PasswordHash = &pwHash
	}

	user, err := s.Repo.UpdateUser(ctx, id, repoUpd)
	if err != nil {
		l.Warn("update failed", "error", err)
		return nil, err
	}
	return user, nil
}

func (s *AuthService) DeleteAccount(ctx context.Context, id uuid.UUID) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.delete_account", "user_id", id)

	user, err := s.Repo.DeleteUser(ctx, id)
	if err != nil {
		l.Warn("delete failed", "error", err)
		return nil, err
	}

	if err := s.Events.Publish(ctx, events.UserEvent{
		Type:     events.TypeUserDeleted,
		UserID:   user.ID.String(),
		Username: user.Username,
	}); err != nil {
		l.Error("event publish failed", "error", err)
	}

	l.Info("account deleted")
	return user, nil
}
