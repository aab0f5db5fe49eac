package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clin/clin/internal/platform/apperr"
	"github.com/clin/clin/internal/platform/auth"
	"github.com/clin/clin/internal/platform/validate"
	"github.com/clin/clin/pkg/pagination"
)

const (
	msgValidation    = "Validation failed"
	msgUserExists    = "User already exists"
	msgUserNotFound  = "User does not exist"
	msgPasswordWrong = "Password does not match"
)

type Service struct {
	repo       Repository
	policy     *auth.Policy
	bcryptCost int
	logger     zerolog.Logger
}

func NewService(repo Repository, policy *auth.Policy, bcryptCost int, logger zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		policy:     policy,
		bcryptCost: bcryptCost,
		logger:     logger.With().Str("component", "user").Logger(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a non-admin user.
func (s *Service) Register(ctx context.Context, in RegisterRequest) (*User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		s.logger.Warn().Strs("fields", validate.Fields(err)).Msg("register rejected")
		return nil, apperr.Wrap(apperr.KindBadRequest, msgValidation, err)
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Conflict(msgUserExists)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	hash, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	u := &User{Name: in.Name, Email: in.Email, PasswordHash: hash}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apperr.Conflict(msgUserExists)
		}
		s.logger.Error().Err(err).Msg("create user")
		return nil, apperr.Internal(err)
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

func (s *Service) LazyList(ctx context.Context, p pagination.Params) ([]*User, int, error) {
	users, total, err := s.repo.LazyList(ctx, p)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return users, total, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupErr(err)
	}
	return u, nil
}

// GetByEmail is used by the session service.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

func (s *Service) lookupErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound(msgUserNotFound)
	}
	return apperr.Internal(err)
}

// Update applies the non-nil fields of in. The caller must be the target user
// or an admin. Changing the password requires the current one.
func (s *Service) Update(ctx context.Context, rc auth.RequestContext, id uuid.UUID, in UpdateRequest) (*User, error) {
	if err := s.policy.Authorize(rc, auth.ActionUpdateUser, id); err != nil {
		s.logger.Warn().Str("actor", rc.UserID.String()).Str("target", id.String()).Msg("update denied")
		return nil, err
	}

	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}
	if err := validate.Struct(in); err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, msgValidation, err)
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupErr(err)
	}

	if in.Email != nil && *in.Email != u.Email {
		if _, err := s.repo.GetByEmail(ctx, *in.Email); err == nil {
			return nil, apperr.Conflict(msgUserExists)
		} else if !errors.Is(err, ErrNotFound) {
			return nil, apperr.Internal(err)
		}
		u.Email = *in.Email
	}
	if in.Name != nil {
		u.Name = *in.Name
	}

	if in.Password != nil {
		if in.OldPassword == nil || in.ConfirmPassword == nil || *in.ConfirmPassword != *in.Password {
			return nil, apperr.BadRequest(msgValidation)
		}
		ok, err := CheckPassword(u.PasswordHash, *in.OldPassword)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if !ok {
			return nil, apperr.Unauthenticated(msgPasswordWrong)
		}
		hash, err := HashPassword(*in.Password, s.bcryptCost)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		u.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apperr.Conflict(msgUserExists)
		}
		return nil, s.lookupErr(err)
	}
	return u, nil
}

// Delete removes a user. Admin only.
func (s *Service) Delete(ctx context.Context, rc auth.RequestContext, id uuid.UUID) error {
	if err := s.policy.Authorize(rc, auth.ActionDeleteUser, id); err != nil {
		s.logger.Warn().Str("actor", rc.UserID.String()).Str("target", id.String()).Msg("delete denied")
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.lookupErr(err)
	}
	return nil
}

// ToggleAdmin flips the admin flag of the target user. Admin only.
func (s *Service) ToggleAdmin(ctx context.Context, rc auth.RequestContext, id uuid.UUID) (*AdminStatus, error) {
	if err := s.policy.Authorize(rc, auth.ActionToggleAdmin, id); err != nil {
		s.logger.Warn().Str("actor", rc.UserID.String()).Str("target", id.String()).Msg("toggle admin denied")
		return nil, err
	}
	u, err := s.repo.ToggleAdmin(ctx, id)
	if err != nil {
		return nil, s.lookupErr(err)
	}
	s.logger.Info().Str("actor", rc.UserID.String()).Str("target", id.String()).Bool("admin", u.Admin).Msg("admin toggled")
	return &AdminStatus{ID: u.ID, Admin: u.Admin, UpdatedAt: u.UpdatedAt}, nil
}

// GrantAdmin makes the user with the given email an admin. It backs the
// bootstrap CLI command and bypasses the policy.
func (s *Service) GrantAdmin(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, s.lookupErr(err)
	}
	if u.Admin {
		return u, nil
	}
	u.Admin = true
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, s.lookupErr(err)
	}
	return u, nil
}
