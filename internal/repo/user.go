package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/keroxio/auth-service/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")
)

type GormRepo struct {
	DB *gorm.DB
}

// UserUpdate carries a partial profile update; nil fields are left
// untouched.
type UserUpdate struct {
	Email        *string
	DisplayName  *string
	PasswordHash *string
	IsActive     *bool
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts the record and lets the unique indexes on username
// and email decide duplication, so a concurrent insert can never slip
// past a pre-check.
func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.DB.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUser
		}
		return err
	}
	return nil
}

func (r *GormRepo) UpdateUser(ctx context.Context, id uuid.UUID, upd UserUpdate) (*models.User, error) {
	fields := map[string]any{}
	if upd.Email != nil {
		fields["email"] = *upd.Email
	}
	if upd.DisplayName != nil {
		fields["display_name"] = *upd.DisplayName
	}
	if upd.PasswordHash != nil {
		fields["password_hash"] = *upd.PasswordHash
	}
	if upd.IsActive != nil {
		fields["is_active"] = *upd.IsActive
	}

	if len(fields) > 0 {
		result := r.DB.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", id).
			Updates(fields)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return nil, ErrDuplicateUser
			}
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrUserNotFound
		}
	}
	return r.GetUserByID(ctx, id)
}

func (r *GormRepo) DeleteUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := r.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return user, nil
}
