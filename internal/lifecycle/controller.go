// Package lifecycle owns the event status state machine: which actions are
// available per status, and the side effects of each transition.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/curator-portal/backend/internal/storage/models"
)

// CancelDelimiter separates the original description from the appended
// cancellation block. The reason is appended, never replaces prior content,
// so the audit history survives.
const CancelDelimiter = "\n\n--- CANCELLED ---\nReason: "

// EventStore is the persistence contract the controller drives. Field saves
// and status changes are two independent calls against separate endpoints.
type EventStore interface {
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, fields models.EventFields) (*models.Event, error)
	Update(ctx context.Context, id string, fields models.EventFields) (*models.Event, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Event, error)
}

// Sentinel errors for the save saga. ErrStatusUpdate is the risky case:
// field data already persisted, transition not applied.
var (
	ErrNotFound          = errors.New("event not found")
	ErrInvalidTransition = errors.New("transition only allowed from planned status")
	ErrEmptyReason       = errors.New("cancellation reason must not be empty")
	ErrFieldSave         = errors.New("event field save failed")
	ErrStatusUpdate      = errors.New("event saved but status update failed")
)

// NextView tells the caller where to navigate after a successful save.
type NextView string

const (
	NextEventDetail    NextView = "event_detail"
	NextEventList      NextView = "event_list"
	NextReportCreation NextView = "report_creation"
)

// SaveResult is the outcome of a successful save.
type SaveResult struct {
	Event         *models.Event         `json:"event"`
	Next          NextView              `json:"next"`
	ReportPrefill *models.ReportPrefill `json:"report_prefill,omitempty"`
}

// Controller orchestrates event saves and lifecycle transitions.
type Controller struct {
	store EventStore
}

// NewController creates a lifecycle controller over the given store.
func NewController(store EventStore) *Controller {
	return &Controller{store: store}
}

// Save persists the field snapshot and, when statusOverride is non-empty,
// applies the status transition as a second, separate call.
//
// The two calls are sequential, not atomic: if the field save succeeds and
// the status update fails the event stays saved with its prior status, and
// the failure is reported as ErrStatusUpdate so the caller can message it
// distinctly from a plain save failure.
func (c *Controller) Save(ctx context.Context, fields models.EventFields, statusOverride string) (*SaveResult, error) {
	if err := Validate(fields); err != nil {
		return nil, err
	}

	if statusOverride != "" {
		if statusOverride != models.StatusConducted && statusOverride != models.StatusCancelled {
			return nil, fmt.Errorf("unsupported status override %q: %w", statusOverride, ErrInvalidTransition)
		}
		if fields.ID != "" {
			current, err := c.store.GetByID(ctx, fields.ID)
			if err != nil {
				return nil, fmt.Errorf("loading event %s: %w", fields.ID, err)
			}
			if current == nil {
				return nil, ErrNotFound
			}
			if current.Status != models.StatusPlanned {
				return nil, fmt.Errorf("event %s is %s: %w", fields.ID, current.Status, ErrInvalidTransition)
			}
		}
	}

	saved, err := c.upsert(ctx, fields)
	if err != nil {
		return nil, err
	}

	if statusOverride == "" {
		return &SaveResult{Event: saved, Next: NextEventDetail}, nil
	}

	transitioned, err := c.store.UpdateStatus(ctx, saved.ID, statusOverride)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatusUpdate, err)
	}
	if transitioned == nil {
		return nil, fmt.Errorf("%w: event %s disappeared", ErrStatusUpdate, saved.ID)
	}

	result := &SaveResult{Event: transitioned}
	switch statusOverride {
	case models.StatusConducted:
		prefill := models.PrefillFromEvent(transitioned)
		result.Next = NextReportCreation
		result.ReportPrefill = &prefill
	case models.StatusCancelled:
		result.Next = NextEventList
	}

	return result, nil
}

// Conduct transitions a planned event to conducted, reusing its stored
// field snapshot. The snapshot must pass full save validation.
func (c *Controller) Conduct(ctx context.Context, id string) (*SaveResult, error) {
	ev, err := c.loadPlanned(ctx, id)
	if err != nil {
		return nil, err
	}

	return c.Save(ctx, ev.Fields(), models.StatusConducted)
}

// Cancel transitions a planned event to cancelled. The reason is mandatory
// and is appended to the existing description before any network call, so a
// partially described cancellation never reaches the store.
func (c *Controller) Cancel(ctx context.Context, id, reason string) (*SaveResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrEmptyReason
	}

	ev, err := c.loadPlanned(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := ev.Fields()
	fields.Description = ev.Description + CancelDelimiter + reason

	return c.Save(ctx, fields, models.StatusCancelled)
}

// Action names presented by the UI per event status.
const (
	ActionEdit    = "edit"
	ActionConduct = "conduct"
	ActionCancel  = "cancel"
)

// AvailableActions returns the lifecycle actions exposed for an event in
// the given status. Conduct and cancel are offered only while planned; the
// privileged revert action is an authorization-layer concern, not a
// lifecycle action.
func AvailableActions(status string) []string {
	if status == models.StatusPlanned {
		return []string{ActionEdit, ActionConduct, ActionCancel}
	}
	return []string{ActionEdit}
}

func (c *Controller) loadPlanned(ctx context.Context, id string) (*models.Event, error) {
	ev, err := c.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading event %s: %w", id, err)
	}
	if ev == nil {
		return nil, ErrNotFound
	}
	if ev.Status != models.StatusPlanned {
		return nil, fmt.Errorf("event %s is %s: %w", id, ev.Status, ErrInvalidTransition)
	}
	return ev, nil
}

func (c *Controller) upsert(ctx context.Context, fields models.EventFields) (*models.Event, error) {
	if fields.ID == "" {
		saved, err := c.store.Create(ctx, fields)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFieldSave, err)
		}
		return saved, nil
	}

	saved, err := c.store.Update(ctx, fields.ID, fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFieldSave, err)
	}
	if saved == nil {
		return nil, ErrNotFound
	}
	return saved, nil
}
