// Package health exposes liveness and readiness endpoints. Liveness always
// succeeds while the process is up; readiness probes the table store so a
// broken data directory or unreachable database flips the endpoint to 503.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oscc/capture/internal/platform/tablestore"
)

// probeTable is an arbitrary table used for the readiness check; loading a
// missing table is defined to succeed, so only real backend failures
// surface.
const probeTable = "studies"

type Handler struct {
	store   tablestore.Store
	version string
}

func NewHandler(store tablestore.Store, version string) *Handler {
	return &Handler{store: store, version: version}
}

// RegisterRoutes mounts the probes on the echo root, outside auth.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.handleLiveness)
	e.GET("/readyz", h.handleReadiness)
}

func (h *Handler) handleLiveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

func (h *Handler) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.store.Load(ctx, probeTable); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
