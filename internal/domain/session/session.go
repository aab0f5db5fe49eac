// Package session exchanges credentials for a signed token.
package session

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clin/clin/internal/domain/user"
	"github.com/clin/clin/internal/platform/apperr"
	"github.com/clin/clin/internal/platform/auth"
	"github.com/clin/clin/internal/platform/validate"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginResponse struct {
	User  user.Public `json:"user"`
	Token string      `json:"token"`
}

// UserFinder looks users up by email. user.Repository satisfies it.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

type TokenIssuer interface {
	Issue(rc auth.RequestContext) (string, error)
}

type Service struct {
	users  UserFinder
	tokens TokenIssuer
	logger zerolog.Logger
}

func NewService(users UserFinder, tokens TokenIssuer, logger zerolog.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// Login verifies the credentials and issues a token for the user.
func (s *Service) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate.Struct(in); err != nil {
		return nil, apperr.Wrap(apperr.KindPreconditionFailed, "Validation failed", err)
	}

	u, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, user.ErrNotFound) {
		s.logger.Warn().Str("email", in.Email).Msg("login unknown user")
		return nil, apperr.Unauthenticated("User not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	ok, err := user.CheckPassword(u.PasswordHash, in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !ok {
		s.logger.Warn().Str("user_id", u.ID.String()).Msg("login password mismatch")
		return nil, apperr.Unauthenticated("Password does not match")
	}

	token, err := s.tokens.Issue(auth.RequestContext{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Admin:  u.Admin,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &LoginResponse{User: u.Public(), Token: token}, nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts POST /session with the given middleware (the login
// rate limiter in production).
func (h *Handler) RegisterRoutes(g *echo.Group, mw ...echo.MiddlewareFunc) {
	g.POST("/session", h.Login, mw...)
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusPreconditionFailed, "Validation failed")
	}
	resp, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}
