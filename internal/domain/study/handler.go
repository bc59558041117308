package study

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
	// Read endpoints – any signed-in study role
	readGroup := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleCoordinator, auth.RoleInvestigator, auth.RoleClinician, auth.RoleLabTech))
	readGroup.GET("/studies", h.ListStudies)
	readGroup.GET("/studies/:id", h.GetStudy)
	readGroup.GET("/labs", h.ListLabs)
	readGroup.GET("/labs/:id", h.GetLab)
	readGroup.GET("/investigators", h.ListInvestigators)
	readGroup.GET("/investigators/:id", h.GetInvestigator)

	// Write endpoints – admin only
	writeGroup := api.Group("", auth.RequireRole(auth.RoleAdmin))
	writeGroup.POST("/studies", h.SaveStudy)
	writeGroup.PUT("/studies/:id", h.UpdateStudy)
	writeGroup.DELETE("/studies/:id", h.DeleteStudy)
	writeGroup.POST("/labs", h.SaveLab)
	writeGroup.PUT("/labs/:id", h.UpdateLab)
	writeGroup.DELETE("/labs/:id", h.DeleteLab)
	writeGroup.POST("/investigators", h.SaveInvestigator)
	writeGroup.PUT("/investigators/:id", h.UpdateInvestigator)
	writeGroup.DELETE("/investigators/:id", h.DeleteInvestigator)
}

// -- Study Handlers --

func (h *Handler) SaveStudy(c echo.Context) error {
	var s Study
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SaveStudy(c.Request().Context(), &s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *Handler) UpdateStudy(c echo.Context) error {
	var s Study
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.StudyID = c.Param("id")
	if err := h.svc.SaveStudy(c.Request().Context(), &s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) GetStudy(c echo.Context) error {
	s, err := h.svc.GetStudy(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "study not found")
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) ListStudies(c echo.Context) error {
	items, err := h.svc.ListStudies(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) DeleteStudy(c echo.Context) error {
	if err := h.svc.DeleteStudy(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrStudyNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "study not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Lab Handlers --

func (h *Handler) SaveLab(c echo.Context) error {
	var l Lab
	if err := c.Bind(&l); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SaveLab(c.Request().Context(), &l); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *Handler) UpdateLab(c echo.Context) error {
	var l Lab
	if err := c.Bind(&l); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	l.LabID = c.Param("id")
	if err := h.svc.SaveLab(c.Request().Context(), &l); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) GetLab(c echo.Context) error {
	l, err := h.svc.GetLab(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "lab not found")
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) ListLabs(c echo.Context) error {
	items, err := h.svc.ListLabs(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) DeleteLab(c echo.Context) error {
	if err := h.svc.DeleteLab(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrLabNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "lab not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Investigator Handlers --

func (h *Handler) SaveInvestigator(c echo.Context) error {
	var inv Investigator
	if err := c.Bind(&inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SaveInvestigator(c.Request().Context(), &inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *Handler) UpdateInvestigator(c echo.Context) error {
	var inv Investigator
	if err := c.Bind(&inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	inv.InvestigatorID = c.Param("id")
	if err := h.svc.SaveInvestigator(c.Request().Context(), &inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) GetInvestigator(c echo.Context) error {
	inv, err := h.svc.GetInvestigator(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "investigator not found")
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) ListInvestigators(c echo.Context) error {
	items, err := h.svc.ListInvestigators(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) DeleteInvestigator(c echo.Context) error {
	if err := h.svc.DeleteInvestigator(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrInvestigatorNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "investigator not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
