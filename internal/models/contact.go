package models

import "time"

// Contact is a per-owner address-book entry. Every contact belongs to
// exactly one user; queries must stay owner-scoped outside the admin
// list-all path.
type Contact struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FirstName string    `json:"first_name" gorm:"type:varchar(100)"`
	LastName  string    `json:"last_name" gorm:"type:varchar(100)"`
	Email     string    `json:"email" gorm:"type:varchar(255);index"`
	Birthday  Date      `json:"birthday"`
	OwnerID   uint      `json:"owner_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactCreate is the request body for creating a contact.
type ContactCreate struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Birthday  Date   `json:"birthday" validate:"required"`
}

// ContactUpdate is a partial update: nil fields are left untouched.
type ContactUpdate struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Birthday  *Date   `json:"birthday"`
}
