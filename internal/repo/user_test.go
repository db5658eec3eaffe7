package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/keroxio/auth-service/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return &GormRepo{DB: db}
}

func seedUser(t *testing.T, r *GormRepo, username, email string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, r.CreateUser(context.Background(), user))
	return user
}

func TestCreateUser_AssignsID(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	user := seedUser(t, r, "alice", "alice@example.com")
	assert.NotEqual(t, uuid.Nil, user.ID)
}

func TestCreateUser_Duplicate(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	seedUser(t, r, "alice", "alice@example.com")

	err := r.CreateUser(ctx, &models.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrDuplicateUser)

	err = r.CreateUser(ctx, &models.User{Username: "other", Email: "alice@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestGetUser_Lookups(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "alice", "alice@example.com")

	byID, err := r.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byID.ID)

	byName, err := r.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := r.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestGetUser_NotFound(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = r.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = r.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser_PartialFields(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "alice", "alice@example.com")

	newName := "Alice A."
	inactive := false
	updated, err := r.UpdateUser(ctx, user.ID, UserUpdate{DisplayName: &newName, IsActive: &inactive})
	require.NoError(t, err)

	assert.Equal(t, "Alice A.", updated.DisplayName)
	assert.False(t, updated.IsActive)
	// untouched fields survive
	assert.Equal(t, "alice@example.com", updated.Email)
	assert.Equal(t, "alice", updated.Username)
}

func TestUpdateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	seedUser(t, r, "alice", "alice@example.com")
	bob := seedUser(t, r, "bob", "bob@example.com")

	taken := "alice@example.com"
	_, err := r.UpdateUser(ctx, bob.ID, UserUpdate{Email: &taken})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestUpdateUser_NotFound(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	name := "ghost"
	_, err := r.UpdateUser(context.Background(), uuid.New(), UserUpdate{DisplayName: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "alice", "alice@example.com")

	deleted, err := r.DeleteUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, deleted.ID)

	_, err = r.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = r.DeleteUser(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
