// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/curator-portal/backend/internal/api/handlers"
	"github.com/curator-portal/backend/internal/api/middleware"
	"github.com/curator-portal/backend/internal/calendar"
	"github.com/curator-portal/backend/internal/lifecycle"
	"github.com/curator-portal/backend/internal/storage"
	"github.com/curator-portal/backend/internal/websocket"
)

// Deps bundles the services the router wires into handlers.
type Deps struct {
	DB        *storage.DB
	Hub       *websocket.Hub
	StaticDir string
	Events    *storage.EventRepository
	Reports   *storage.ReportRepository
	Students  *storage.StudentRepository
	Lifecycle *lifecycle.Controller
	Calendar  *calendar.Engine
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(deps Deps) *mux.Router {
	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	// API subrouter
	api := r.PathPrefix("/api").Subrouter()

	// Health and status endpoints
	api.HandleFunc("/health", handlers.HealthCheck(deps.DB)).Methods("GET")
	api.HandleFunc("/status", handlers.Status(deps.DB, deps.Hub)).Methods("GET")

	// WebSocket endpoint
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(deps.Hub)).Methods("GET")

	// Event endpoints
	api.HandleFunc("/events", handlers.ListEvents(deps.Events)).Methods("GET")
	api.HandleFunc("/events", handlers.CreateEvent(deps.Lifecycle, deps.Hub)).Methods("POST")
	api.HandleFunc("/events/{id}", handlers.GetEvent(deps.Events)).Methods("GET")
	api.HandleFunc("/events/{id}", handlers.UpdateEvent(deps.Lifecycle, deps.Hub)).Methods("PUT")
	api.HandleFunc("/events/{id}", handlers.DeleteEvent(deps.Events, deps.Hub)).Methods("DELETE")
	api.HandleFunc("/events/{id}/conduct", handlers.ConductEvent(deps.Lifecycle, deps.Hub)).Methods("POST")
	api.HandleFunc("/events/{id}/cancel", handlers.CancelEvent(deps.Lifecycle, deps.Hub)).Methods("POST")
	api.HandleFunc("/events/{id}/status", handlers.SetEventStatus(deps.Events, deps.Hub)).Methods("PUT")

	// Calendar endpoints
	api.HandleFunc("/calendar", handlers.GetCalendar(deps.Calendar)).Methods("GET")
	api.HandleFunc("/calendar/fixed-dates", handlers.GetFixedDates(deps.Calendar)).Methods("GET")

	// Report endpoints
	api.HandleFunc("/reports", handlers.ListReports(deps.Reports)).Methods("GET")
	api.HandleFunc("/reports", handlers.CreateReport(deps.Reports, deps.Hub)).Methods("POST")
	api.HandleFunc("/reports/prefill", handlers.ReportPrefill(deps.Events)).Methods("GET")
	api.HandleFunc("/reports/{id}", handlers.GetReport(deps.Reports)).Methods("GET")
	api.HandleFunc("/reports/{id}", handlers.UpdateReport(deps.Reports)).Methods("PUT")
	api.HandleFunc("/reports/{id}", handlers.DeleteReport(deps.Reports)).Methods("DELETE")

	// Student roster endpoints
	api.HandleFunc("/students", handlers.ListStudents(deps.Students)).Methods("GET")
	api.HandleFunc("/students", handlers.CreateStudent(deps.Students)).Methods("POST")
	api.HandleFunc("/students/{id}", handlers.GetStudent(deps.Students)).Methods("GET")
	api.HandleFunc("/students/{id}", handlers.UpdateStudent(deps.Students)).Methods("PUT")
	api.HandleFunc("/students/{id}", handlers.DeleteStudent(deps.Students)).Methods("DELETE")

	// Settings endpoints
	api.HandleFunc("/settings", handlers.GetSettings(deps.DB)).Methods("GET")
	api.HandleFunc("/settings", handlers.UpdateSettings(deps.DB)).Methods("PUT")

	// Serve static frontend files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(deps.StaticDir)))

	return r
}
