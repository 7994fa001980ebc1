// internal/api/handler/api/reports.go
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/newthinker/sentinel/internal/api/response"
	"github.com/newthinker/sentinel/internal/core"
	"github.com/newthinker/sentinel/internal/sentiment"
	"github.com/newthinker/sentinel/internal/storage/report"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ReportsHandler serves the session's report history.
type ReportsHandler struct {
	store report.Store
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(store report.Store) *ReportsHandler {
	return &ReportsHandler{store: store}
}

// List returns reports newest first. Query parameters: limit, offset,
// color, mode, from, to (RFC 3339).
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrBadRequest, err))
		return
	}

	reports, err := h.store.List(r.Context(), filter)
	if err != nil {
		response.Fail(w, err)
		return
	}
	total, err := h.store.Count(r.Context(), filter)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.List(w, reports, len(reports), total)
}

// Get returns a single report.
func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rep, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.JSON(w, http.StatusOK, rep)
}

func parseFilter(r *http.Request) (report.ListFilter, error) {
	q := r.URL.Query()
	filter := report.ListFilter{Limit: defaultLimit}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return filter, fmt.Errorf("invalid limit %q", v)
		}
		filter.Limit = min(n, maxLimit)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("invalid offset %q", v)
		}
		filter.Offset = n
	}

	if v := q.Get("color"); v != "" {
		c := sentiment.Color(v)
		switch c {
		case sentiment.ColorGreen, sentiment.ColorRed, sentiment.ColorOrange, sentiment.ColorNeutralGrey:
			filter.Color = c
		default:
			return filter, fmt.Errorf("invalid color %q", v)
		}
	}
	if v := q.Get("mode"); v != "" {
		m := sentiment.Mode(v)
		if m != sentiment.ModeStandard && m != sentiment.ModeEndOfDay {
			return filter, fmt.Errorf("invalid mode %q", v)
		}
		filter.Mode = m
	}

	var err error
	if filter.From, err = parseTime(q.Get("from")); err != nil {
		return filter, err
	}
	if filter.To, err = parseTime(q.Get("to")); err != nil {
		return filter, err
	}
	return filter, nil
}

func parseTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", v, err)
	}
	return t, nil
}
