package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/curator-portal/backend/internal/api/middleware"
	"github.com/curator-portal/backend/internal/lifecycle"
	"github.com/curator-portal/backend/internal/storage"
	"github.com/curator-portal/backend/internal/storage/models"
	"github.com/curator-portal/backend/internal/websocket"
)

// EventListResponse is the envelope for event list queries.
type EventListResponse struct {
	Events     []models.Event `json:"events"`
	TotalItems int            `json:"total_items"`
}

// EventDetailResponse wraps an event with its available lifecycle actions.
type EventDetailResponse struct {
	Event   *models.Event `json:"event"`
	Actions []string      `json:"actions"`
}

// saveRequest is the body for event create/update calls. StatusOverride is
// optional; when present the save becomes a two-step transition.
type saveRequest struct {
	models.EventFields
	StatusOverride string `json:"status_override,omitempty"`
}

// ListEvents returns events matching the query filters.
func ListEvents(repo *storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := models.EventFilter{
			Status:    q.Get("status"),
			StartDate: q.Get("start_date"),
			EndDate:   q.Get("end_date"),
			SortBy:    q.Get("sort_by"),
			SortDesc:  q.Get("sort_order") == "desc",
			Limit:     100,
		}
		if filter.Status != "" && !models.ValidStatus(filter.Status) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Unknown status filter")
			return
		}

		events, total, err := repo.List(r.Context(), filter)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query events")
			return
		}

		if events == nil {
			events = []models.Event{}
		}

		writeJSON(w, http.StatusOK, EventListResponse{Events: events, TotalItems: total})
	}
}

// GetEvent returns a single event with its available actions.
func GetEvent(repo *storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ev, err := repo.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query event")
			return
		}
		if ev == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Event not found")
			return
		}

		writeJSON(w, http.StatusOK, EventDetailResponse{
			Event:   ev,
			Actions: lifecycle.AvailableActions(ev.Status),
		})
	}
}

// CreateEvent saves a new event through the lifecycle controller.
func CreateEvent(ctrl *lifecycle.Controller, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		req.ID = ""

		result, err := ctrl.Save(r.Context(), req.EventFields, req.StatusOverride)
		if err != nil {
			writeLifecycleError(w, err)
			return
		}

		broadcastSave(hub, result, true)
		writeJSON(w, http.StatusCreated, result)
	}
}

// UpdateEvent saves an existing event, optionally with a status override.
func UpdateEvent(ctrl *lifecycle.Controller, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		req.ID = mux.Vars(r)["id"]

		result, err := ctrl.Save(r.Context(), req.EventFields, req.StatusOverride)
		if err != nil {
			writeLifecycleError(w, err)
			return
		}

		broadcastSave(hub, result, false)
		writeJSON(w, http.StatusOK, result)
	}
}

// ConductEvent transitions a planned event to conducted and returns the
// report-creation prefill.
func ConductEvent(ctrl *lifecycle.Controller, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := ctrl.Conduct(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeLifecycleError(w, err)
			return
		}

		broadcastTransition(hub, result, models.StatusPlanned)
		writeJSON(w, http.StatusOK, result)
	}
}

// cancelRequest is the body for the cancel endpoint.
type cancelRequest struct {
	Reason string `json:"reason"`
}

// CancelEvent transitions a planned event to cancelled, appending the
// mandatory reason to its description.
func CancelEvent(ctrl *lifecycle.Controller, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cancelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		result, err := ctrl.Cancel(r.Context(), mux.Vars(r)["id"], req.Reason)
		if err != nil {
			writeLifecycleError(w, err)
			return
		}

		broadcastTransition(hub, result, models.StatusPlanned)
		writeJSON(w, http.StatusOK, result)
	}
}

// statusRequest is the body for the privileged status endpoint.
type statusRequest struct {
	Status string `json:"status"`
}

// SetEventStatus writes an event status directly, bypassing lifecycle
// gating. This is the administrative revert path; the authorization
// decision is made upstream of this handler.
func SetEventStatus(repo *storage.EventRepository, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if !models.ValidStatus(req.Status) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Status must be: planned, conducted, or cancelled")
			return
		}

		id := mux.Vars(r)["id"]
		previous, err := repo.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query event")
			return
		}
		if previous == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Event not found")
			return
		}

		ev, err := repo.UpdateStatus(r.Context(), id, req.Status)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update event status")
			return
		}

		if hub != nil && previous.Status != ev.Status {
			b := websocket.NewEventBroadcaster(hub)
			b.BroadcastEventStatusChanged(ev, previous.Status)
			b.BroadcastCalendarInvalidated(ev)
		}

		writeJSON(w, http.StatusOK, ev)
	}
}

// DeleteEvent removes an event.
func DeleteEvent(repo *storage.EventRepository, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		ev, err := repo.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query event")
			return
		}
		if ev == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Event not found")
			return
		}

		if _, err := repo.Delete(r.Context(), id); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete event")
			return
		}

		if hub != nil {
			websocket.NewEventBroadcaster(hub).BroadcastCalendarInvalidated(ev)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// writeLifecycleError maps controller failures onto the API error taxonomy.
// A failed status update after a successful field save gets its own code so
// clients can message it distinctly.
func writeLifecycleError(w http.ResponseWriter, err error) {
	var vErr *lifecycle.ValidationError
	switch {
	case errors.As(err, &vErr):
		middleware.WriteErrorWithDetails(w, http.StatusBadRequest, middleware.ErrValidation,
			"Event fields failed validation", vErr.Fields)
	case errors.Is(err, lifecycle.ErrEmptyReason):
		middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation,
			"Cancellation reason must not be empty")
	case errors.Is(err, lifecycle.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Event not found")
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict,
			"Transition is only allowed while the event is planned")
	case errors.Is(err, lifecycle.ErrStatusUpdate):
		middleware.WriteError(w, http.StatusBadGateway, middleware.ErrStatusUpdate,
			"Event fields were saved, but the status transition did not apply")
	default:
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError,
			"Failed to save event")
	}
}

func broadcastSave(hub *websocket.Hub, result *lifecycle.SaveResult, created bool) {
	if hub == nil {
		return
	}
	b := websocket.NewEventBroadcaster(hub)
	b.BroadcastEventSaved(result.Event, created)
	b.BroadcastCalendarInvalidated(result.Event)
	if result.Next != lifecycle.NextEventDetail {
		b.BroadcastEventStatusChanged(result.Event, models.StatusPlanned)
	}
}

func broadcastTransition(hub *websocket.Hub, result *lifecycle.SaveResult, previousStatus string) {
	if hub == nil {
		return
	}
	b := websocket.NewEventBroadcaster(hub)
	b.BroadcastEventStatusChanged(result.Event, previousStatus)
	b.BroadcastCalendarInvalidated(result.Event)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
