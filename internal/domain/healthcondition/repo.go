package healthcondition

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("health condition not found")
	ErrDuplicate = errors.New("health condition already registered")
)

type Repository interface {
	PatientExists(ctx context.Context, patientID uuid.UUID) (bool, error)

	FindRelative(ctx context.Context, patientID uuid.UUID, description string) (*Relative, error)
	CreateRelative(ctx context.Context, r *Relative) error

	// DescriptionExists reports whether any entry of the patient, own or
	// family history, already has description, ignoring except.
	DescriptionExists(ctx context.Context, patientID uuid.UUID, description string, except uuid.UUID) (bool, error)
	// Exists reports whether the patient already has description for the
	// given relative (nil for the patient's own conditions), ignoring except.
	Exists(ctx context.Context, patientID uuid.UUID, description string, relativeID *uuid.UUID, except uuid.UUID) (bool, error)
	Create(ctx context.Context, hc *HealthCondition) error
	GetByID(ctx context.Context, id uuid.UUID) (*HealthCondition, error)
	UpdateDescription(ctx context.Context, hc *HealthCondition) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByPatient returns own conditions first, then family history, each
	// ordered by description.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*HealthCondition, error)
	// DeleteByPatient removes the patient's conditions and then its relatives.
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}
