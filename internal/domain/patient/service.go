package patient

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clin/clin/internal/domain/healthcondition"
	"github.com/clin/clin/internal/platform/apperr"
	"github.com/clin/clin/internal/platform/auth"
	"github.com/clin/clin/internal/platform/db"
	"github.com/clin/clin/internal/platform/validate"
	"github.com/clin/clin/pkg/cpf"
	"github.com/clin/clin/pkg/pagination"
)

const (
	msgValidation    = "Validation failed"
	msgGenderMissing = "Gender does not exist"
	msgPatientExists = "Patient already exists"
	msgInvalidCPF    = "Invalid CPF"
	msgNotFound      = "Patient does not exist"
)

// Conditions is the part of the health condition service a patient needs.
type Conditions interface {
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*healthcondition.HealthCondition, error)
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}

type Service struct {
	repo       Repository
	conditions Conditions
	tx         db.Transactor
	policy     *auth.Policy
	now        func() time.Time
	logger     zerolog.Logger
}

func NewService(repo Repository, conditions Conditions, tx db.Transactor, policy *auth.Policy, logger zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		conditions: conditions,
		tx:         tx,
		policy:     policy,
		now:        time.Now,
		logger:     logger.With().Str("component", "patient").Logger(),
	}
}

func (s *Service) views(patients []*Patient) []View {
	now := s.now()
	out := make([]View, len(patients))
	for i, p := range patients {
		out[i] = p.View(now)
	}
	return out
}

func (s *Service) validationErr(err error) error {
	return apperr.Wrap(apperr.KindPreconditionFailed, msgValidation, err)
}

func (s *Service) checkGender(ctx context.Context, id int) error {
	ok, err := s.repo.GenderExists(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.PreconditionFailed(msgGenderMissing)
	}
	return nil
}

// checkCPF validates the checksum and that no other patient holds the
// number. It returns the normalized digits.
func (s *Service) checkCPF(ctx context.Context, raw string, self uuid.UUID) (string, error) {
	if !cpf.IsValid(raw) {
		return "", apperr.PreconditionFailed(msgInvalidCPF)
	}
	digits := cpf.Normalize(raw)

	existing, err := s.repo.GetByCPF(ctx, digits)
	switch {
	case err == nil && existing.ID != self:
		return "", apperr.Conflict(msgPatientExists)
	case err != nil && !errors.Is(err, ErrNotFound):
		return "", apperr.Internal(err)
	}
	return digits, nil
}

func (s *Service) storeErr(err error) error {
	switch {
	case errors.Is(err, ErrCPFTaken):
		return apperr.Conflict(msgPatientExists)
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound(msgNotFound)
	}
	s.logger.Error().Err(err).Msg("patient store")
	return apperr.Internal(err)
}

// Create registers a patient owned by the calling doctor.
func (s *Service) Create(ctx context.Context, rc auth.RequestContext, in CreateRequest) (*View, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		s.logger.Warn().Strs("fields", validate.Fields(err)).Msg("create patient rejected")
		return nil, s.validationErr(err)
	}
	birthday, ok := ParseBirthday(in.Birthday)
	if !ok || birthday.After(s.now()) {
		return nil, apperr.PreconditionFailed(msgValidation)
	}
	if err := s.checkGender(ctx, in.GenderID); err != nil {
		return nil, err
	}
	digits, err := s.checkCPF(ctx, in.CPF, uuid.Nil)
	if err != nil {
		return nil, err
	}

	owner := rc.UserID
	p := &Patient{
		Name:     in.Name,
		Birthday: birthday,
		GenderID: in.GenderID,
		CPF:      digits,
		UserID:   &owner,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, s.storeErr(err)
	}

	created, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, s.storeErr(err)
	}
	v := created.View(s.now())
	return &v, nil
}

func (s *Service) List(ctx context.Context) ([]View, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.storeErr(err)
	}
	return s.views(patients), nil
}

// LazyList pages the calling doctor's own patients.
func (s *Service) LazyList(ctx context.Context, rc auth.RequestContext, p pagination.Params) ([]View, int, error) {
	doctor := rc.UserID
	return s.lazyList(ctx, p, &doctor)
}

// LazyListAll pages every patient regardless of doctor.
func (s *Service) LazyListAll(ctx context.Context, p pagination.Params) ([]View, int, error) {
	return s.lazyList(ctx, p, nil)
}

func (s *Service) lazyList(ctx context.Context, p pagination.Params, doctorID *uuid.UUID) ([]View, int, error) {
	patients, total, err := s.repo.LazyList(ctx, p, doctorID)
	if err != nil {
		return nil, 0, s.storeErr(err)
	}
	return s.views(patients), total, nil
}

// Get returns a patient with its health conditions.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err)
	}
	conditions, err := s.conditions.ListByPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	if conditions == nil {
		conditions = []*healthcondition.HealthCondition{}
	}
	return &Detail{View: p.View(s.now()), HealthConditions: conditions}, nil
}

// Update applies the non-nil fields of in. Admin only.
func (s *Service) Update(ctx context.Context, rc auth.RequestContext, id uuid.UUID, in UpdateRequest) (*View, error) {
	if err := s.policy.Authorize(rc, auth.ActionUpdatePatient, uuid.Nil); err != nil {
		s.logger.Warn().Str("actor", rc.UserID.String()).Str("patient_id", id.String()).Msg("update denied")
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if err := validate.Struct(in); err != nil {
		return nil, s.validationErr(err)
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err)
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Birthday != nil {
		birthday, ok := ParseBirthday(*in.Birthday)
		if !ok || birthday.After(s.now()) {
			return nil, apperr.PreconditionFailed(msgValidation)
		}
		p.Birthday = birthday
	}
	if in.GenderID != nil && *in.GenderID != p.GenderID {
		if err := s.checkGender(ctx, *in.GenderID); err != nil {
			return nil, err
		}
		p.GenderID = *in.GenderID
	}
	if in.CPF != nil && cpf.Normalize(*in.CPF) != p.CPF {
		digits, err := s.checkCPF(ctx, *in.CPF, p.ID)
		if err != nil {
			return nil, err
		}
		p.CPF = digits
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, s.storeErr(err)
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err)
	}
	v := updated.View(s.now())
	return &v, nil
}

// Delete removes a patient together with its health conditions and
// relatives in one transaction. Admin only.
func (s *Service) Delete(ctx context.Context, rc auth.RequestContext, id uuid.UUID) error {
	if err := s.policy.Authorize(rc, auth.ActionDeletePatient, uuid.Nil); err != nil {
		s.logger.Warn().Str("actor", rc.UserID.String()).Str("patient_id", id.String()).Msg("delete denied")
		return err
	}

	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return s.storeErr(err)
		}
		if err := s.conditions.DeleteByPatient(ctx, id); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return s.storeErr(err)
		}
		return nil
	})
}

func (s *Service) Genders(ctx context.Context) ([]Gender, error) {
	genders, err := s.repo.ListGenders(ctx)
	if err != nil {
		return nil, s.storeErr(err)
	}
	return genders, nil
}
