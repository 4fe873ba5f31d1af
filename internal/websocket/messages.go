package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypeEventStatusChanged  MessageType = "event.status_changed"
	TypeEventSaved          MessageType = "event.saved"
	TypeCalendarInvalidated MessageType = "calendar.invalidated"
	TypeReportCreated       MessageType = "report.created"
	TypeNotification        MessageType = "notification"

	// Client -> Server command types
	TypePing MessageType = "ping"

	// Server -> Client response types
	TypePong  MessageType = "pong"
	TypeError MessageType = "error"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// EventStatusPayload is the payload for event.status_changed events.
type EventStatusPayload struct {
	EventID        string `json:"event_id"`
	EventTitle     string `json:"event_title"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
}

// EventSavedPayload is the payload for event.saved events.
type EventSavedPayload struct {
	EventID    string `json:"event_id"`
	EventTitle string `json:"event_title"`
	StartDate  string `json:"start_date"`
	Created    bool   `json:"created"`
}

// CalendarInvalidatedPayload hints open calendar views to re-fetch their
// visible range after an event write touched the given dates.
type CalendarInvalidatedPayload struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
}

// ReportCreatedPayload is the payload for report.created events.
type ReportCreatedPayload struct {
	ReportID string  `json:"report_id"`
	EventID  *string `json:"event_id,omitempty"`
	Title    string  `json:"title"`
}

// NotificationPayload is the payload for notification events.
type NotificationPayload struct {
	Level       string `json:"level"` // info, warning, error, success
	Title       string `json:"title"`
	Message     string `json:"message"`
	Dismissible bool   `json:"dismissible"`
}

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	OriginalType string `json:"original_type,omitempty"`
}
