package export

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTableCSVContext(table string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("table")
	c.SetParamValues(table)
	return c, rec
}

func TestHandler_TableCSV(t *testing.T) {
	svc, _ := newTestService(t)
	h := NewHandler(svc)

	c, rec := newTableCSVContext("research_samples")
	if err := h.TableCSV(c); err != nil {
		t.Fatalf("TableCSV: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "SampleID,ResearchID,SampleType") {
		t.Errorf("body = %q, want csv header", rec.Body.String())
	}
}

func TestHandler_TableCSV_RejectsUndeclaredNames(t *testing.T) {
	svc, _ := newTestService(t)
	h := NewHandler(svc)

	for _, table := range []string{"nope", "../../etc/passwd", "..", "research_samples/.."} {
		c, _ := newTableCSVContext(table)
		err := h.TableCSV(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusNotFound {
			t.Errorf("table %q: expected 404, got %v", table, err)
		}
	}
}
