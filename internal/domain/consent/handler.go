package consent

import (
	"errors"
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
	readGroup := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleCoordinator, auth.RoleInvestigator))
	readGroup.GET("/consents", h.List)
	readGroup.GET("/participants/:id/consent", h.Get)

	writeGroup := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleCoordinator, auth.RoleInvestigator))
	writeGroup.PUT("/participants/:id/consent", h.Save)
}

func (h *Handler) Save(c echo.Context) error {
	var rec Consent
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec.ResearchID = c.Param("id")
	if err := h.svc.Save(c.Request().Context(), c.QueryParam("study_id"), &rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) Get(c echo.Context) error {
	rec, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrConsentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "consent not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
