package models

import "time"

// Report represents a curator activity report, optionally linked to the
// event it documents.
type Report struct {
	ID          string    `json:"id"`
	EventID     *string   `json:"event_id,omitempty"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	EventDate   string    `json:"event_date"` // YYYY-MM-DD
	CuratorName string    `json:"curator_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReportPrefill is the payload handed to the report-creation form after a
// successful planned→conducted transition.
type ReportPrefill struct {
	EventID    string `json:"event_id"`
	EventTitle string `json:"event_title"`
	EventDate  string `json:"event_date"`
}

// PrefillFromEvent builds the report-creation prefill for a conducted event.
func PrefillFromEvent(ev *Event) ReportPrefill {
	return ReportPrefill{
		EventID:    ev.ID,
		EventTitle: ev.Title,
		EventDate:  ev.StartDate,
	}
}
