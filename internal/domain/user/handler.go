package user

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clin/clin/internal/platform/apperr"
	"github.com/clin/clin/internal/platform/auth"
	"github.com/clin/clin/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublicRoutes mounts the unauthenticated sign-up route.
func (h *Handler) RegisterPublicRoutes(e *echo.Group) {
	e.POST("/users", h.Register)
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/users", h.List)
	api.GET("/users/lazy", h.LazyList)
	api.GET("/users/:id", h.Get)
	api.PUT("/users/:id", h.Update)
	api.DELETE("/users/:id", h.Delete)
	api.PUT("/users/:id/admin", h.ToggleAdmin)
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Validation failed")
	}
	u, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) List(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context())
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) LazyList(c echo.Context) error {
	users, total, err := h.svc.LazyList(c.Request().Context(), pagination.FromContext(c))
	if err != nil {
		return apperr.HTTPError(err)
	}
	c.Response().Header().Set(pagination.TotalCountHeader, strconv.Itoa(total))
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	u, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) Update(c echo.Context) error {
	rc, err := auth.MustFromEcho(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Validation failed")
	}
	u, err := h.svc.Update(c.Request().Context(), rc, id, req)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) Delete(c echo.Context) error {
	rc, err := auth.MustFromEcho(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), rc, id); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"deleted": id.String()})
}

func (h *Handler) ToggleAdmin(c echo.Context) error {
	rc, err := auth.MustFromEcho(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	status, err := h.svc.ToggleAdmin(c.Request().Context(), rc, id)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, status)
}
