package labwork

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
	readGroup := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleCoordinator, auth.RoleInvestigator, auth.RoleLabTech))
	readGroup.GET("/lab-results", h.ListLab)
	readGroup.GET("/samples/:sid/lab-result", h.GetLab)
	readGroup.GET("/participants/:id/lab-results", h.ListLabByParticipant)
	readGroup.GET("/risk-results", h.ListRisk)
	readGroup.GET("/samples/:sid/risk-result", h.GetRisk)
	readGroup.GET("/participants/:id/risk-results", h.ListRiskByParticipant)

	labGroup := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleLabTech))
	labGroup.PUT("/samples/:sid/lab-result", h.SaveLab)

	riskGroup := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleInvestigator, auth.RoleLabTech))
	riskGroup.PUT("/samples/:sid/risk-result", h.SaveRisk)
}

func (h *Handler) SaveLab(c echo.Context) error {
	var r LabResult
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r.SampleID = c.Param("sid")
	if err := h.svc.SaveLabResult(c.Request().Context(), &r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) GetLab(c echo.Context) error {
	r, err := h.svc.GetLabResult(c.Request().Context(), c.Param("sid"))
	if err != nil {
		if errors.Is(err, ErrLabResultNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "lab result not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ListLab(c echo.Context) error {
	items, err := h.svc.ListLabResults(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListLabByParticipant(c echo.Context) error {
	items, err := h.svc.ListLabResultsByParticipant(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) SaveRisk(c echo.Context) error {
	var r RiskResult
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r.SampleID = c.Param("sid")
	if err := h.svc.SaveRiskResult(c.Request().Context(), &r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) GetRisk(c echo.Context) error {
	r, err := h.svc.GetRiskResult(c.Request().Context(), c.Param("sid"))
	if err != nil {
		if errors.Is(err, ErrRiskResultNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "risk result not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ListRisk(c echo.Context) error {
	items, err := h.svc.ListRiskResults(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListRiskByParticipant(c echo.Context) error {
	items, err := h.svc.ListRiskResultsByParticipant(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
