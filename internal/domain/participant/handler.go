package participant

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oscc/capture/internal/platform/auth"
	"github.com/oscc/capture/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Read endpoints – research staff
	readGroup := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleCoordinator, auth.RoleInvestigator))
	readGroup.GET("/participants", h.List)
	readGroup.GET("/participants/:id", h.Get)
	readGroup.GET("/participants/:id/status", h.Status)

	// Write endpoints – coordinators register and maintain the register
	writeGroup := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleCoordinator))
	writeGroup.POST("/participants", h.Register)
	writeGroup.PUT("/participants/:id", h.Update)
	writeGroup.DELETE("/participants/:id", h.Delete)
}

func (h *Handler) Register(c echo.Context) error {
	var p Participant
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Register(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Update(c echo.Context) error {
	var p Participant
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ResearchID = c.Param("id")
	if err := h.svc.Update(c.Request().Context(), &p); err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "participant not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Get(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "participant not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context(), c.QueryParam("study_id"), c.QueryParam("q"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	p := pagination.FromContext(c)
	lo, hi := p.Slice(len(items))
	return c.JSON(http.StatusOK, pagination.NewResponse(items[lo:hi], len(items), p.Limit, p.Offset))
}

func (h *Handler) Status(c echo.Context) error {
	st, err := h.svc.Status(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "participant not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) Delete(c echo.Context) error {
	removed, err := h.svc.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "participant not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"research_id":    c.Param("id"),
		"dependent_rows": removed,
	})
}
