package clinic

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
	readGroup := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleClinician, auth.RoleCoordinator))
	readGroup.GET("/clinic/patients", h.ListPatients)
	readGroup.GET("/clinic/patients/:cid", h.GetPatient)
	readGroup.GET("/clinic/patients/:cid/visits", h.ListVisits)
	readGroup.GET("/clinic/visits/:vid", h.GetVisit)
	readGroup.GET("/clinic/patients/:cid/images", h.ListImages)
	readGroup.GET("/clinic/patients/:cid/treatments", h.ListTreatments)

	writeGroup := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleClinician))
	writeGroup.POST("/clinic/patients", h.SavePatient)
	writeGroup.PUT("/clinic/patients/:cid", h.UpdatePatient)
	writeGroup.DELETE("/clinic/patients/:cid", h.DeletePatient)
	writeGroup.POST("/clinic/patients/:cid/visits", h.SaveVisit)
	writeGroup.DELETE("/clinic/visits/:vid", h.DeleteVisit)
	writeGroup.POST("/clinic/patients/:cid/images", h.AddImage)
	writeGroup.DELETE("/clinic/images/:imgId", h.DeleteImage)
	writeGroup.POST("/clinic/patients/:cid/treatments", h.AddTreatment)
	writeGroup.DELETE("/clinic/treatments/:tid", h.DeleteTreatment)
}

func (h *Handler) SavePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	saved, err := h.svc.SavePatient(c.Request().Context(), &p)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, saved)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ClinicalID = c.Param("cid")
	saved, err := h.svc.SavePatient(c.Request().Context(), &p)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, saved)
}

func (h *Handler) GetPatient(c echo.Context) error {
	p, err := h.svc.GetPatient(c.Request().Context(), c.Param("cid"))
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "clinical patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPatients(c echo.Context) error {
	items, err := h.svc.ListPatients(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	p := pagination.FromContext(c)
	lo, hi := p.Slice(len(items))
	return c.JSON(http.StatusOK, pagination.NewResponse(items[lo:hi], len(items), p.Limit, p.Offset))
}

func (h *Handler) DeletePatient(c echo.Context) error {
	removed, err := h.svc.DeletePatient(c.Request().Context(), c.Param("cid"))
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "clinical patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"clinical_id":    c.Param("cid"),
		"dependent_rows": removed,
	})
}

type visitResponse struct {
	Visit    *Visit   `json:"visit"`
	Warnings []string `json:"warnings,omitempty"`
}

func (h *Handler) SaveVisit(c echo.Context) error {
	var v Visit
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v.ClinicalID = c.Param("cid")
	saved, warnings, err := h.svc.SaveVisit(c.Request().Context(), &v)
	if err != nil {
		if errors.Is(err, ErrVisitNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "visit not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, visitResponse{Visit: saved, Warnings: warnings})
}

func (h *Handler) GetVisit(c echo.Context) error {
	v, err := h.svc.GetVisit(c.Request().Context(), c.Param("vid"))
	if err != nil {
		if errors.Is(err, ErrVisitNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "visit not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) ListVisits(c echo.Context) error {
	items, err := h.svc.ListVisits(c.Request().Context(), c.Param("cid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) DeleteVisit(c echo.Context) error {
	if err := h.svc.DeleteVisit(c.Request().Context(), c.Param("vid")); err != nil {
		if errors.Is(err, ErrVisitNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "visit not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddImage(c echo.Context) error {
	var img Image
	if err := c.Bind(&img); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	img.ClinicalID = c.Param("cid")
	saved, err := h.svc.AddImage(c.Request().Context(), &img)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, saved)
}

func (h *Handler) ListImages(c echo.Context) error {
	items, err := h.svc.ListImages(c.Request().Context(), c.Param("cid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) DeleteImage(c echo.Context) error {
	if err := h.svc.DeleteImage(c.Request().Context(), c.Param("imgId")); err != nil {
		if errors.Is(err, ErrImageNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "image not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddTreatment(c echo.Context) error {
	var tr Treatment
	if err := c.Bind(&tr); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	tr.ClinicalID = c.Param("cid")
	saved, err := h.svc.AddTreatment(c.Request().Context(), &tr)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, saved)
}

func (h *Handler) ListTreatments(c echo.Context) error {
	items, err := h.svc.ListTreatments(c.Request().Context(), c.Param("cid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) DeleteTreatment(c echo.Context) error {
	if err := h.svc.DeleteTreatment(c.Request().Context(), c.Param("tid")); err != nil {
		if errors.Is(err, ErrTreatmentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "treatment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
