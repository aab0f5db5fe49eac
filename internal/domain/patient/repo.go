package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/clin/clin/pkg/pagination"
)

var (
	ErrNotFound = errors.New("patient not found")
	ErrCPFTaken = errors.New("cpf already registered")
)

type Repository interface {
	GenderExists(ctx context.Context, id int) (bool, error)
	ListGenders(ctx context.Context) ([]Gender, error)

	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByCPF(ctx context.Context, cpf string) (*Patient, error)
	// List returns every patient ordered by name, case-insensitively.
	List(ctx context.Context) ([]*Patient, error)
	// LazyList pages the name ordering. A non-nil doctorID restricts the
	// result to that doctor's patients.
	LazyList(ctx context.Context, p pagination.Params, doctorID *uuid.UUID) ([]*Patient, int, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
}
