package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func requestWithRoles(e *echo.Echo, roles []string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserRolesKey, roles)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		required []string
		granted  []string
		want     int
	}{
		{"exact match", []string{RoleLabTech}, []string{RoleLabTech}, http.StatusOK},
		{"one of several", []string{RoleClinician, RoleCoordinator}, []string{RoleCoordinator}, http.StatusOK},
		{"admin overrides", []string{RoleLabTech}, []string{RoleAdmin}, http.StatusOK},
		{"missing role", []string{RoleInvestigator}, []string{RoleClinician}, http.StatusForbidden},
		{"no roles at all", []string{RoleInvestigator}, nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Use(RequireRole(tt.required...))
			e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

			rec := requestWithRoles(e, tt.granted)
			if rec.Code != tt.want {
				t.Errorf("got status %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
