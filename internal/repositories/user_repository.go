package repositories

import "contactbook/internal/models"

// UserRepository defines the interface for user data access.
//
// GetByUsername and GetByEmail return (nil, nil) when no row matches;
// a missing user is an expected outcome for lookups, not an error.
type UserRepository interface {
	Create(userCreate *models.UserCreate) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Activate(user *models.User) error
	UpdateAvatar(email, url string) (*models.User, error)
}

// RoleRepository defines the interface for role lookups.
type RoleRepository interface {
	GetByName(name string) (*models.Role, error)
	Seed() error
}
