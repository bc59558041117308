package screening

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
	readGroup.GET("/screening", h.List)
	readGroup.GET("/screening/audit-questions", h.AuditQuestions)
	readGroup.GET("/participants/:id/screening", h.Get)

	writeGroup := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleCoordinator, auth.RoleInvestigator))
	writeGroup.PUT("/participants/:id/screening", h.Save)
}

func (h *Handler) Save(c echo.Context) error {
	var scr Screening
	if err := c.Bind(&scr); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	scr.ResearchID = c.Param("id")
	if err := h.svc.Save(c.Request().Context(), &scr); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, scr)
}

func (h *Handler) Get(c echo.Context) error {
	scr, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrScreeningNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "screening not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, scr)
}

func (h *Handler) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

// AuditQuestions serves the questionnaire definition so clients render the
// same options and scores the evaluation expects.
func (h *Handler) AuditQuestions(c echo.Context) error {
	return c.JSON(http.StatusOK, AuditQuestions)
}
