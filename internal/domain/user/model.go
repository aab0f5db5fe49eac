package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Public is the subset of a user returned alongside a session token.
type Public struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Admin bool      `json:"admin"`
}

func (u *User) Public() Public {
	return Public{ID: u.ID, Name: u.Name, Email: u.Email, Admin: u.Admin}
}

// AdminStatus is the response of the admin toggle.
type AdminStatus struct {
	ID        uuid.UUID `json:"id"`
	Admin     bool      `json:"admin"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,maxbytes=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// UpdateRequest carries optional changes. Nil fields keep their value.
type UpdateRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1"`
	Email           *string `json:"email" validate:"omitempty,email"`
	OldPassword     *string `json:"oldPassword"`
	Password        *string `json:"password" validate:"omitempty,min=6,maxbytes=72"`
	ConfirmPassword *string `json:"confirmPassword"`
}
