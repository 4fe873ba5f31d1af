// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"net/http"

	"github.com/curator-portal/backend/internal/api/middleware"
	"github.com/curator-portal/backend/internal/storage"
	"github.com/curator-portal/backend/internal/storage/models"
	"github.com/curator-portal/backend/internal/websocket"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
}

// HealthCheck returns a handler that performs a health check.
func HealthCheck(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db.Ping() == nil

		status := "healthy"
		code := http.StatusOK
		if !dbConnected {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		writeJSON(w, code, HealthResponse{
			Status:      status,
			DBConnected: dbConnected,
		})
	}
}

// StatusResponse represents the system status response.
type StatusResponse struct {
	PlannedEvents    int `json:"planned_events"`
	ConductedEvents  int `json:"conducted_events"`
	CancelledEvents  int `json:"cancelled_events"`
	Reports          int `json:"reports"`
	Students         int `json:"students"`
	ConnectedClients int `json:"connected_clients"`
}

// Status returns a handler that provides portal status counters.
func Status(db *storage.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var resp StatusResponse

		rows, err := db.QueryContext(ctx, "SELECT status, COUNT(*) FROM events GROUP BY status")
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query event counts")
			return
		}
		defer rows.Close()

		for rows.Next() {
			var status string
			var count int
			if err := rows.Scan(&status, &count); err != nil {
				continue
			}
			switch status {
			case models.StatusPlanned:
				resp.PlannedEvents = count
			case models.StatusConducted:
				resp.ConductedEvents = count
			case models.StatusCancelled:
				resp.CancelledEvents = count
			}
		}

		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports").Scan(&resp.Reports)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM students").Scan(&resp.Students)

		if hub != nil {
			resp.ConnectedClients = hub.ClientCount()
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
