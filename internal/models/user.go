package models

import "time"

// Role names seeded at migration time. The roles table is immutable after
// seeding; code may rely on these two rows existing.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Role is a fixed lookup row referenced by users.
type Role struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(50)"`
}

// User represents an account holder. Accounts start inactive and become
// active once the verification email is confirmed.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"uniqueIndex;type:varchar(100)"`
	Email          string    `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	HashedPassword string    `json:"-" gorm:"type:varchar(255)"` // never serialized
	IsActive       bool      `json:"is_active"`
	Avatar         string    `json:"avatar,omitempty" gorm:"type:varchar(512)"`
	RoleID         uint      `json:"role_id"`
	Role           Role      `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserCreate is the registration request body.
type UserCreate struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}
