package casehistory

import (
	"encoding/json"
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
	readGroup := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleCoordinator, auth.RoleInvestigator, auth.RoleClinician))
	readGroup.GET("/participants/:id/history", h.GetHistory)
	readGroup.GET("/participants/:id/documents", h.ListDocuments)

	writeGroup := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleCoordinator, auth.RoleInvestigator, auth.RoleClinician))
	writeGroup.PUT("/participants/:id/history", h.SaveHistory)
	writeGroup.POST("/participants/:id/documents", h.AddDocument)
	writeGroup.DELETE("/documents/:docId", h.DeleteDocument)
}

type saveHistoryRequest struct {
	Answers     json.RawMessage `json:"answers"`
	Medications []*Medication   `json:"medications"`
}

type historyResponse struct {
	History     *History      `json:"history"`
	Medications []*Medication `json:"medications"`
	Warnings    []string      `json:"warnings,omitempty"`
}

func (h *Handler) SaveHistory(c echo.Context) error {
	var req saveHistoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rid := c.Param("id")
	warnings, err := h.svc.SaveHistory(c.Request().Context(), rid, req.Answers, req.Medications)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hist, meds, err := h.svc.GetHistory(c.Request().Context(), rid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, historyResponse{History: hist, Medications: meds, Warnings: warnings})
}

func (h *Handler) GetHistory(c echo.Context) error {
	hist, meds, err := h.svc.GetHistory(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrHistoryNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "case history not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, historyResponse{History: hist, Medications: meds})
}

func (h *Handler) AddDocument(c echo.Context) error {
	var d Document
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.ResearchID = c.Param("id")
	if err := h.svc.AddDocument(c.Request().Context(), &d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) ListDocuments(c echo.Context) error {
	docs, err := h.svc.ListDocuments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, docs)
}

func (h *Handler) DeleteDocument(c echo.Context) error {
	if err := h.svc.DeleteDocument(c.Request().Context(), c.Param("docId")); err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "document not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
