package healthcondition

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clin/clin/internal/platform/apperr"
	"github.com/clin/clin/internal/platform/db"
	"github.com/clin/clin/internal/platform/validate"
)

const (
	msgValidation      = "Validation failed"
	msgPatientNotFound = "Patient not found"
	msgNotFound        = "Health condition does not exist"
	msgDuplicateOwn    = "Health condition already in the list"
	msgDuplicateFamily = "Family history already registered"
)

type Service struct {
	repo   Repository
	tx     db.Transactor
	logger zerolog.Logger
}

func NewService(repo Repository, tx db.Transactor, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		tx:     tx,
		logger: logger.With().Str("component", "health_condition").Logger(),
	}
}

// Create records a condition for a patient. A description is accepted once
// per patient whether it is an own condition or family history. With a
// relative label the entry is family history; the relative is looked up for
// the patient and created on first use. All writes happen in one transaction.
func (s *Service) Create(ctx context.Context, in CreateRequest) (*HealthCondition, error) {
	in.Description = Normalize(in.Description)
	if in.Relative != nil {
		label := Normalize(*in.Relative)
		in.Relative = &label
		if label == "" {
			in.Relative = nil
		}
	}
	if err := validate.Struct(in); err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, msgValidation, err)
	}
	patientID, err := uuid.Parse(in.PatientID)
	if err != nil {
		return nil, apperr.BadRequest(msgValidation)
	}

	hc := &HealthCondition{PatientID: patientID, Description: in.Description}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		ok, err := s.repo.PatientExists(ctx, patientID)
		if err != nil {
			return apperr.Internal(err)
		}
		if !ok {
			return apperr.NotFound(msgPatientNotFound)
		}

		dup, err := s.repo.DescriptionExists(ctx, patientID, hc.Description, uuid.Nil)
		if err != nil {
			return apperr.Internal(err)
		}
		if dup {
			return s.duplicateErr(ctx, patientID, hc.Description, in.Relative)
		}

		if in.Relative != nil {
			rel, err := s.resolveRelative(ctx, patientID, *in.Relative)
			if err != nil {
				return err
			}
			hc.RelativeID = &rel.ID
			hc.Relative = &rel.Description
		}

		if err := s.repo.Create(ctx, hc); err != nil {
			if errors.Is(err, ErrDuplicate) {
				return apperr.BadRequest(msgDuplicateOwn)
			}
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			s.logger.Error().Err(err).Str("patient_id", patientID.String()).Msg("create health condition")
		}
		return nil, err
	}

	hc.FamilyHistory = hc.RelativeID != nil
	return hc, nil
}

// duplicateErr picks the message for a description the patient already has.
// Repeating the same relative's entry is reported as family history.
func (s *Service) duplicateErr(ctx context.Context, patientID uuid.UUID, description string, relative *string) error {
	if relative == nil {
		return apperr.BadRequest(msgDuplicateOwn)
	}
	rel, err := s.repo.FindRelative(ctx, patientID, *relative)
	if errors.Is(err, ErrNotFound) {
		return apperr.BadRequest(msgDuplicateOwn)
	}
	if err != nil {
		return apperr.Internal(err)
	}
	same, err := s.repo.Exists(ctx, patientID, description, &rel.ID, uuid.Nil)
	if err != nil {
		return apperr.Internal(err)
	}
	if same {
		return apperr.BadRequest(msgDuplicateFamily)
	}
	return apperr.BadRequest(msgDuplicateOwn)
}

func (s *Service) resolveRelative(ctx context.Context, patientID uuid.UUID, label string) (*Relative, error) {
	rel, err := s.repo.FindRelative(ctx, patientID, label)
	if err == nil {
		return rel, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	rel = &Relative{PatientID: patientID, Description: label}
	if err := s.repo.CreateRelative(ctx, rel); err != nil {
		return nil, apperr.Internal(err)
	}
	return rel, nil
}

// Update changes only the description.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateRequest) (*HealthCondition, error) {
	in.Description = Normalize(in.Description)
	if err := validate.Struct(in); err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, msgValidation, err)
	}

	hc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupErr(err)
	}
	if hc.Description == in.Description {
		return hc, nil
	}

	dup, err := s.repo.DescriptionExists(ctx, hc.PatientID, in.Description, hc.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if dup {
		return nil, apperr.BadRequest(msgDuplicateOwn)
	}

	hc.Description = in.Description
	if err := s.repo.UpdateDescription(ctx, hc); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, apperr.BadRequest(msgDuplicateOwn)
		}
		return nil, s.lookupErr(err)
	}
	return hc, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.lookupErr(err)
	}
	return nil
}

// ListByPatient returns the patient's conditions, own entries first.
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*HealthCondition, error) {
	items, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

// DeleteByPatient removes every condition and relative of a patient. Callers
// run it inside their own transaction.
func (s *Service) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	if err := s.repo.DeleteByPatient(ctx, patientID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *Service) lookupErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound(msgNotFound)
	}
	return apperr.Internal(err)
}
