package sample

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
	readGroup.GET("/participants/:id/samples", h.ListByParticipant)
	readGroup.GET("/participants/:id/samples/planned", h.Planned)
	readGroup.GET("/samples/:sid", h.Get)

	writeGroup := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleCoordinator, auth.RoleInvestigator))
	writeGroup.POST("/participants/:id/samples", h.Save)

	// Lab techs may stamp custody events (sample receipt) but not edit
	// the collection form itself.
	eventGroup := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleCoordinator, auth.RoleInvestigator, auth.RoleLabTech))
	eventGroup.POST("/samples/:sid/events", h.RecordEvent)
}

func (h *Handler) Save(c echo.Context) error {
	var smp Sample
	if err := c.Bind(&smp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	smp.ResearchID = c.Param("id")
	saved, err := h.svc.Save(c.Request().Context(), &smp)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, saved)
}

type eventRequest struct {
	Event string `json:"event"`
}

func (h *Handler) RecordEvent(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	smp, err := h.svc.RecordEvent(c.Request().Context(), c.Param("sid"), req.Event)
	if err != nil {
		if errors.Is(err, ErrSampleNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "sample not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, smp)
}

func (h *Handler) Get(c echo.Context) error {
	smp, err := h.svc.Get(c.Request().Context(), c.Param("sid"))
	if err != nil {
		if errors.Is(err, ErrSampleNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "sample not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, smp)
}

func (h *Handler) ListByParticipant(c echo.Context) error {
	items, err := h.svc.ListByParticipant(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Planned(c echo.Context) error {
	slots, err := h.svc.Planned(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, slots)
}
