package patient

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

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patient", h.Create)
	api.GET("/patient", h.List)
	api.GET("/patient/lazy", h.LazyList)
	api.GET("/patient/:id", h.Get)
	api.PUT("/patient/:id", h.Update)
	api.DELETE("/patient/:id", h.Delete)

	api.GET("/genders", h.Genders)
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

func (h *Handler) Create(c echo.Context) error {
	rc, err := auth.MustFromEcho(c)
	if err != nil {
		return err
	}
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusPreconditionFailed, "Validation failed")
	}
	v, err := h.svc.Create(c.Request().Context(), rc, req)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) List(c echo.Context) error {
	views, err := h.svc.List(c.Request().Context())
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) LazyList(c echo.Context) error {
	rc, err := auth.MustFromEcho(c)
	if err != nil {
		return err
	}
	views, total, err := h.svc.LazyList(c.Request().Context(), rc, pagination.FromContext(c))
	if err != nil {
		return apperr.HTTPError(err)
	}
	c.Response().Header().Set(pagination.TotalCountHeader, strconv.Itoa(total))
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	v, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, v)
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
		return echo.NewHTTPError(http.StatusPreconditionFailed, "Validation failed")
	}
	v, err := h.svc.Update(c.Request().Context(), rc, id, req)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, v)
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

func (h *Handler) Genders(c echo.Context) error {
	genders, err := h.svc.Genders(c.Request().Context())
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, genders)
}
