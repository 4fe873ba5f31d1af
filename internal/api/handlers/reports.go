package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/curator-portal/backend/internal/api/middleware"
	"github.com/curator-portal/backend/internal/storage"
	"github.com/curator-portal/backend/internal/storage/models"
	"github.com/curator-portal/backend/internal/websocket"
)

// ListReports returns reports, optionally filtered by event_id.
func ListReports(repo *storage.ReportRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reports, err := repo.List(r.Context(), r.URL.Query().Get("event_id"))
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query reports")
			return
		}

		if reports == nil {
			reports = []models.Report{}
		}

		writeJSON(w, http.StatusOK, reports)
	}
}

// GetReport returns a single report by ID.
func GetReport(repo *storage.ReportRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := repo.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query report")
			return
		}
		if report == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Report not found")
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}

// ReportPrefill returns the pre-filled creation payload for a conducted
// event, matching what the conduct transition hands to the UI.
func ReportPrefill(events *storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := r.URL.Query().Get("event_id")
		if eventID == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "event_id is required")
			return
		}

		ev, err := events.GetByID(r.Context(), eventID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query event")
			return
		}
		if ev == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Event not found")
			return
		}

		writeJSON(w, http.StatusOK, models.PrefillFromEvent(ev))
	}
}

// CreateReport inserts a new curator report.
func CreateReport(repo *storage.ReportRepository, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var report models.Report
		if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if strings.TrimSpace(report.Title) == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Report title is required")
			return
		}

		created, err := repo.Create(r.Context(), &report)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create report")
			return
		}

		if hub != nil {
			websocket.NewEventBroadcaster(hub).BroadcastReportCreated(created)
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

// UpdateReport replaces a report's editable fields.
func UpdateReport(repo *storage.ReportRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var report models.Report
		if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if strings.TrimSpace(report.Title) == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Report title is required")
			return
		}

		id := mux.Vars(r)["id"]
		updated, err := repo.Update(r.Context(), id, &report)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update report")
			return
		}
		if !updated {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Report not found")
			return
		}

		current, err := repo.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query report")
			return
		}

		writeJSON(w, http.StatusOK, current)
	}
}

// DeleteReport removes a report.
func DeleteReport(repo *storage.ReportRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := repo.Delete(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete report")
			return
		}
		if !deleted {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Report not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
