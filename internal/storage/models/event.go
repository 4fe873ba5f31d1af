// Package models contains the domain models for the curator portal.
package models

import (
	"encoding/json"
	"time"
)

// Event represents one tracked outreach activity with a lifecycle status.
type Event struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	StartDate   string  `json:"start_date"`         // YYYY-MM-DD
	EndDate     *string `json:"end_date,omitempty"` // YYYY-MM-DD, nil or equal to start means single-day
	Status      string  `json:"status"`

	ResponsibleLastName   string `json:"responsible_last_name"`
	ResponsibleFirstName  string `json:"responsible_first_name"`
	ResponsibleMiddleName string `json:"responsible_middle_name,omitempty"`

	CreatedBy string `json:"created_by,omitempty"`

	// Aggregated associations are opaque to the lifecycle: they are stored
	// and returned verbatim, and field saves pass them through unchanged.
	Tags           json.RawMessage `json:"tags,omitempty"`
	FundingSources json.RawMessage `json:"funding_sources,omitempty"`
	MediaLinks     json.RawMessage `json:"media_links,omitempty"`
	Guests         json.RawMessage `json:"guests,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Event status constants. An event is created planned and moves forward to
// conducted or cancelled; there is no forward path back to planned.
const (
	StatusPlanned   = "planned"
	StatusConducted = "conducted"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is a known event status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPlanned, StatusConducted, StatusCancelled:
		return true
	}
	return false
}

// DateLayout is the wire format for all event dates.
const DateLayout = "2006-01-02"

// EventFields is the editable field snapshot used for field-only saves.
// It deliberately has no status: status changes go through a separate
// status-update call.
type EventFields struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`

	ResponsibleLastName   string `json:"responsible_last_name"`
	ResponsibleFirstName  string `json:"responsible_first_name"`
	ResponsibleMiddleName string `json:"responsible_middle_name,omitempty"`

	CreatedBy string `json:"created_by,omitempty"`

	Tags           json.RawMessage `json:"tags,omitempty"`
	FundingSources json.RawMessage `json:"funding_sources,omitempty"`
	MediaLinks     json.RawMessage `json:"media_links,omitempty"`
	Guests         json.RawMessage `json:"guests,omitempty"`
}

// Fields extracts the editable snapshot from a stored event.
func (e *Event) Fields() EventFields {
	return EventFields{
		ID:                    e.ID,
		Title:                 e.Title,
		Description:           e.Description,
		StartDate:             e.StartDate,
		EndDate:               e.EndDate,
		ResponsibleLastName:   e.ResponsibleLastName,
		ResponsibleFirstName:  e.ResponsibleFirstName,
		ResponsibleMiddleName: e.ResponsibleMiddleName,
		CreatedBy:             e.CreatedBy,
		Tags:                  e.Tags,
		FundingSources:        e.FundingSources,
		MediaLinks:            e.MediaLinks,
		Guests:                e.Guests,
	}
}

// SingleDay reports whether the event occupies exactly one calendar day.
func (e *Event) SingleDay() bool {
	return e.EndDate == nil || *e.EndDate == "" || *e.EndDate == e.StartDate
}

// EventFilter describes list query parameters for events.
type EventFilter struct {
	Status    string
	StartDate string // inclusive lower bound on start_date
	EndDate   string // exclusive upper bound on start_date
	Limit     int
	SortBy    string // "start_date" (default), "title", "created_at"
	SortDesc  bool
}
