package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clin/clin/internal/domain/patient"
	"github.com/clin/clin/internal/platform/apperr"
	"github.com/clin/clin/pkg/pagination"
)

type stubPatients struct {
	all  []patient.View
	seen pagination.Params
	err  error
}

func (s *stubPatients) LazyListAll(_ context.Context, p pagination.Params) ([]patient.View, int, error) {
	s.seen = p
	if s.err != nil {
		return nil, 0, s.err
	}
	return pagination.Window(s.all, p), len(s.all), nil
}

func get(h *Handler, target string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), rec)
	return rec, h.LazyList(c)
}

func TestLazyList(t *testing.T) {
	stub := &stubPatients{}
	for _, name := range []string{"ANA", "BRUNO", "CARLOS"} {
		stub.all = append(stub.all, patient.View{ID: uuid.New(), Name: name})
	}

	rec, err := get(NewHandler(stub), "/dashboard/lazy?page=2&perPage=2&search=a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.seen.Page != 2 || stub.seen.PerPage != 2 || stub.seen.Search != "a" {
		t.Errorf("unexpected params %+v", stub.seen)
	}
	if got := rec.Header().Get(pagination.TotalCountHeader); got != "3" {
		t.Errorf("expected total 3, got %q", got)
	}

	var got []patient.View
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Name != "CARLOS" {
		t.Errorf("unexpected page %+v", got)
	}
}

func TestLazyList_Empty(t *testing.T) {
	rec, err := get(NewHandler(&stubPatients{}), "/dashboard/lazy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected [], got %s", body)
	}
}

func TestLazyList_StoreFailure(t *testing.T) {
	_, err := get(NewHandler(&stubPatients{err: apperr.Internal(errors.New("db down"))}), "/dashboard/lazy")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
}
