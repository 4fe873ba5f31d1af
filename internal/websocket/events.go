package websocket

import (
	"log"

	"github.com/curator-portal/backend/internal/storage/models"
)

// EventBroadcaster handles broadcasting portal events to WebSocket clients.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// BroadcastEventStatusChanged sends an event.status_changed message.
func (b *EventBroadcaster) BroadcastEventStatusChanged(ev *models.Event, previousStatus string) {
	b.send(NewMessage(TypeEventStatusChanged, EventStatusPayload{
		EventID:        ev.ID,
		EventTitle:     ev.Title,
		PreviousStatus: previousStatus,
		NewStatus:      ev.Status,
	}))
}

// BroadcastEventSaved sends an event.saved message.
func (b *EventBroadcaster) BroadcastEventSaved(ev *models.Event, created bool) {
	b.send(NewMessage(TypeEventSaved, EventSavedPayload{
		EventID:    ev.ID,
		EventTitle: ev.Title,
		StartDate:  ev.StartDate,
		Created:    created,
	}))
}

// BroadcastCalendarInvalidated hints clients to re-fetch their visible range.
func (b *EventBroadcaster) BroadcastCalendarInvalidated(ev *models.Event) {
	payload := CalendarInvalidatedPayload{StartDate: ev.StartDate}
	if ev.EndDate != nil {
		payload.EndDate = *ev.EndDate
	}
	b.send(NewMessage(TypeCalendarInvalidated, payload))
}

// BroadcastReportCreated sends a report.created message.
func (b *EventBroadcaster) BroadcastReportCreated(report *models.Report) {
	b.send(NewMessage(TypeReportCreated, ReportCreatedPayload{
		ReportID: report.ID,
		EventID:  report.EventID,
		Title:    report.Title,
	}))
}

// BroadcastNotification sends a user-facing notification.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string) {
	b.send(NewMessage(TypeNotification, NotificationPayload{
		Level:       level,
		Title:       title,
		Message:     message,
		Dismissible: true,
	}))
}

func (b *EventBroadcaster) send(msg Message) {
	if b == nil || b.hub == nil {
		return
	}

	data, err := msg.JSON()
	if err != nil {
		log.Printf("Failed to serialize %s message: %v", msg.Type, err)
		return
	}

	b.hub.Broadcast(data)
}
