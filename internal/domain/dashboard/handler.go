// Package dashboard serves the oversight view across every doctor's patients.
package dashboard

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clin/clin/internal/domain/patient"
	"github.com/clin/clin/internal/platform/apperr"
	"github.com/clin/clin/pkg/pagination"
)

// Patients pages all patients without a doctor filter.
type Patients interface {
	LazyListAll(ctx context.Context, p pagination.Params) ([]patient.View, int, error)
}

type Handler struct {
	patients Patients
}

func NewHandler(patients Patients) *Handler {
	return &Handler{patients: patients}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard/lazy", h.LazyList)
}

func (h *Handler) LazyList(c echo.Context) error {
	views, total, err := h.patients.LazyListAll(c.Request().Context(), pagination.FromContext(c))
	if err != nil {
		return apperr.HTTPError(err)
	}
	c.Response().Header().Set(pagination.TotalCountHeader, strconv.Itoa(total))
	return c.JSON(http.StatusOK, views)
}
