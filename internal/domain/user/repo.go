package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/clin/clin/pkg/pagination"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Repository stores users. Lookups that match nothing return ErrNotFound and
// writes that collide on email return ErrEmailTaken.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	LazyList(ctx context.Context, p pagination.Params) ([]*User, int, error)
	Update(ctx context.Context, u *User) error
	ToggleAdmin(ctx context.Context, id uuid.UUID) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
