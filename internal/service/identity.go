package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/keroxio/auth-service/internal/models"
	"github.com/keroxio/auth-service/internal/repo"
	"github.com/keroxio/auth-service/internal/tokens"
)

// UserStore is the user-lookup collaborator the resolver needs.
type UserStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// IdentityResolver answers "who is this bearer token". It deliberately
// collapses "bad token" and "deleted user" into the same rejection so
// account existence never leaks.
type IdentityResolver struct {
	Tokens *tokens.Service
	Users  UserStore
}

func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	claims, err := r.Tokens.Verify(token, tokens.TypeAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := r.Users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}

// ResolveOptional never fails: anonymous callers and callers with an
// unusable token both resolve to no identity.
func (r *IdentityResolver) ResolveOptional(ctx context.Context, token string) *models.User {
	user, err := r.Resolve(ctx, token)
	if err != nil {
		return nil
	}
	return user
}
