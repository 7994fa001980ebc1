// internal/api/handler/api/dashboard.go
package api

import (
	"net/http"

	"github.com/newthinker/sentinel/internal/api/response"
	"github.com/newthinker/sentinel/internal/view"
)

// DashboardApp defines the interface needed from app.App.
type DashboardApp interface {
	Latest() view.Dashboard
	RequestRefresh()
	Stats() map[string]any
}

// DashboardHandler serves the live dashboard.
type DashboardHandler struct {
	app DashboardApp
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(app DashboardApp) *DashboardHandler {
	return &DashboardHandler{app: app}
}

// Get returns the last published dashboard.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.app.Latest())
}

// Refresh queues a manual override. The cycle runs on the loop, not on the
// request goroutine, so at most one analysis is ever in flight.
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.app.RequestRefresh()
	response.JSON(w, http.StatusAccepted, map[string]any{
		"queued": true,
	})
}

// Health reports liveness together with loop statistics.
func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"loop":   h.app.Stats(),
	})
}
