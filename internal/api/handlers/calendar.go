package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/curator-portal/backend/internal/api/middleware"
	"github.com/curator-portal/backend/internal/calendar"
	"github.com/curator-portal/backend/internal/storage/models"
)

// CalendarItemResponse is one calendar item with its display class.
type CalendarItemResponse struct {
	calendar.Item
	Class string `json:"class"`
}

// CalendarResponse is the envelope for visible-range queries.
type CalendarResponse struct {
	Items []CalendarItemResponse `json:"items"`

	// Degraded is set when the event fetch failed and only fixed
	// annotations are shown. The view stays usable and recoverable.
	Degraded bool `json:"degraded,omitempty"`
}

// GetCalendar returns the reconciled calendar collection for the visible
// range given by the start and end query parameters (YYYY-MM-DD, inclusive).
func GetCalendar(engine *calendar.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		start, err := time.Parse(models.DateLayout, q.Get("start"))
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "start must be YYYY-MM-DD")
			return
		}
		end, err := time.Parse(models.DateLayout, q.Get("end"))
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "end must be YYYY-MM-DD")
			return
		}
		if end.Before(start) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "end must not be before start")
			return
		}

		items, err := engine.LoadVisible(r.Context(), calendar.Range{Start: start, End: end})
		if errors.Is(err, calendar.ErrStale) {
			// A newer request owns the view; this response is meaningless.
			middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, "Superseded by a newer calendar request")
			return
		}

		resp := CalendarResponse{Items: make([]CalendarItemResponse, 0, len(items))}
		for _, item := range items {
			resp.Items = append(resp.Items, CalendarItemResponse{
				Item:  item,
				Class: calendar.ClassFor(item),
			})
		}
		resp.Degraded = err != nil

		writeJSON(w, http.StatusOK, resp)
	}
}

// GetFixedDates returns the configured recurring annotation table.
func GetFixedDates(engine *calendar.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, engine.FixedDates())
	}
}
