package export

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oscc/capture/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	group := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleCoordinator, auth.RoleInvestigator))
	group.GET("/export", h.Archive)
	group.GET("/export/tables", h.Tables)
	group.GET("/export/tables/:table", h.TableCSV)
}

func (h *Handler) Archive(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/zip")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", ArchiveName))
	c.Response().WriteHeader(http.StatusOK)
	return h.svc.WriteArchive(c.Request().Context(), c.Response())
}

func (h *Handler) Tables(c echo.Context) error {
	names, err := h.svc.TableNames(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, names)
}

func (h *Handler) TableCSV(c echo.Context) error {
	table := c.Param("table")
	names, err := h.svc.TableNames(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	known := false
	for _, n := range names {
		if n == table {
			known = true
			break
		}
	}
	// The name reaches the flat-file backend as a path component, so only
	// declared tables may pass.
	if !known {
		return echo.NewHTTPError(http.StatusNotFound, "unknown table")
	}
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", table+".csv"))
	c.Response().WriteHeader(http.StatusOK)
	return h.svc.WriteTableCSV(c.Request().Context(), table, c.Response())
}
