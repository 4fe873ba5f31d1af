package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/curator-portal/backend/internal/api/middleware"
	"github.com/curator-portal/backend/internal/storage"
)

// SettingsResponse represents portal settings in API responses.
type SettingsResponse struct {
	WeekStart          string `json:"week_start"`
	ReminderTime       string `json:"reminder_time"`
	CalendarEventLimit string `json:"calendar_event_limit"`
}

// GetSettings returns all portal settings.
func GetSettings(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := db.QueryContext(r.Context(), "SELECT key, value FROM settings")
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query settings")
			return
		}
		defer rows.Close()

		settings := make(map[string]string)
		for rows.Next() {
			var key, value string
			if err := rows.Scan(&key, &value); err != nil {
				continue
			}
			settings[key] = value
		}

		writeJSON(w, http.StatusOK, SettingsResponse{
			WeekStart:          settings["week_start"],
			ReminderTime:       settings["reminder_time"],
			CalendarEventLimit: settings["calendar_event_limit"],
		})
	}
}

// UpdateSettings upserts the provided settings keys.
func UpdateSettings(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		allowed := map[string]bool{
			"week_start":           true,
			"reminder_time":        true,
			"calendar_event_limit": true,
		}

		for key, value := range req {
			if !allowed[key] {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Unknown setting: "+key)
				return
			}
			if key == "week_start" && value != "monday" && value != "sunday" {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "week_start must be monday or sunday")
				return
			}

			_, err := db.ExecContext(r.Context(), `
				INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
			`, key, value)
			if err != nil {
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update setting")
				return
			}
		}

		GetSettings(db)(w, r)
	}
}
