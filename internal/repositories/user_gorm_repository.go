package repositories

import (
	"fmt"

	"contactbook/internal/models"
	"contactbook/pkg/hashutil"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db    *gorm.DB
	roles RoleRepository
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB, roles RoleRepository) *GORMUserRepository {
	return &GORMUserRepository{
		db:    db,
		roles: roles,
	}
}

// Create hashes the password, resolves the default USER role and inserts
// the user as inactive. The returned user carries the generated ID.
func (r *GORMUserRepository) Create(userCreate *models.UserCreate) (*models.User, error) {
	hashed, err := hashutil.HashPassword(userCreate.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role, err := r.roles.GetByName(models.RoleUser)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       userCreate.Username,
		Email:          userCreate.Email,
		HashedPassword: hashed,
		RoleID:         role.ID,
		IsActive:       false,
	}
	if err := r.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username. Returns (nil, nil) when no
// user matches.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Role").First(&user, "username = ?", username).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email with the role preloaded. Returns
// (nil, nil) when no user matches.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Role").First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// Activate marks the user as active. Re-activating an already active
// user is a no-op in effect.
func (r *GORMUserRepository) Activate(user *models.User) error {
	if err := r.db.Model(user).Update("is_active", true).Error; err != nil {
		return fmt.Errorf("failed to activate user %d: %w", user.ID, err)
	}
	user.IsActive = true
	return nil
}

// UpdateAvatar sets the avatar URL for the user with the given email.
// Returns ErrUserNotFound if no such user exists.
func (r *GORMUserRepository) UpdateAvatar(email, url string) (*models.User, error) {
	user, err := r.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", email, ErrUserNotFound)
	}
	if err := r.db.Model(user).Update("avatar", url).Error; err != nil {
		return nil, fmt.Errorf("failed to update avatar for %s: %w", email, err)
	}
	user.Avatar = url
	return user, nil
}
