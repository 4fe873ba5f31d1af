package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/curator-portal/backend/internal/storage/models"
)

// EventRepository provides data access for outreach events.
//
// Field saves and status changes are separate writes: Update never touches
// the status column and UpdateStatus never touches field data. Callers that
// need both issue two sequential calls.
type EventRepository struct {
	BaseRepository
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const eventColumns = `
	id, title, description, start_date, end_date, status,
	responsible_last_name, responsible_first_name, responsible_middle_name,
	created_by, tags, funding_sources, media_links, guests,
	created_at, updated_at`

// Create inserts a new event in planned status and returns the stored row.
func (r *EventRepository) Create(ctx context.Context, fields models.EventFields) (*models.Event, error) {
	id := GenerateID()
	now := r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO events (
			id, title, description, start_date, end_date, status,
			responsible_last_name, responsible_first_name, responsible_middle_name,
			created_by, tags, funding_sources, media_links, guests,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id, fields.Title, fields.Description, fields.StartDate, fields.EndDate,
		models.StatusPlanned,
		fields.ResponsibleLastName, fields.ResponsibleFirstName, fields.ResponsibleMiddleName,
		fields.CreatedBy,
		rawToNull(fields.Tags), rawToNull(fields.FundingSources),
		rawToNull(fields.MediaLinks), rawToNull(fields.Guests),
		now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting event: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Update replaces the editable fields of an existing event. The status
// column is deliberately left alone.
func (r *EventRepository) Update(ctx context.Context, id string, fields models.EventFields) (*models.Event, error) {
	res, err := r.DB().ExecContext(ctx, `
		UPDATE events SET
			title = ?, description = ?, start_date = ?, end_date = ?,
			responsible_last_name = ?, responsible_first_name = ?, responsible_middle_name = ?,
			tags = ?, funding_sources = ?, media_links = ?, guests = ?,
			updated_at = ?
		WHERE id = ?
	`,
		fields.Title, fields.Description, fields.StartDate, fields.EndDate,
		fields.ResponsibleLastName, fields.ResponsibleFirstName, fields.ResponsibleMiddleName,
		rawToNull(fields.Tags), rawToNull(fields.FundingSources),
		rawToNull(fields.MediaLinks), rawToNull(fields.Guests),
		r.Now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating event: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

// UpdateStatus changes only the status of an event.
func (r *EventRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Event, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("unknown event status %q", status)
	}

	res, err := r.DB().ExecContext(ctx, `
		UPDATE events SET status = ?, updated_at = ? WHERE id = ?
	`, status, r.Now(), id)
	if err != nil {
		return nil, fmt.Errorf("updating event status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating event status: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

// GetByID retrieves an event by its ID. Returns nil, nil when no row exists.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	row := r.DB().QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id)

	ev, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying event: %w", err)
	}

	return ev, nil
}

// List retrieves events matching the filter and the total match count.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	where := " WHERE 1=1"
	var args []any

	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.StartDate != "" {
		where += " AND start_date >= ?"
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		where += " AND start_date < ?"
		args = append(args, filter.EndDate)
	}

	var total int
	if err := r.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM events"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting events: %w", err)
	}

	query := `SELECT ` + eventColumns + ` FROM events` + where

	switch filter.SortBy {
	case "title":
		query += " ORDER BY title"
	case "created_at":
		query += " ORDER BY created_at"
	default:
		query += " ORDER BY start_date"
	}
	if filter.SortDesc {
		query += " DESC"
	}

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, *ev)
	}

	return events, total, rows.Err()
}

// ListOverduePlanned returns planned events whose start date is strictly
// before the given date. Used by the reminder sweep.
func (r *EventRepository) ListOverduePlanned(ctx context.Context, before string) ([]models.Event, error) {
	rows, err := r.DB().QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE status = ? AND start_date < ?
		 ORDER BY start_date`,
		models.StatusPlanned, before)
	if err != nil {
		return nil, fmt.Errorf("querying overdue events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, *ev)
	}

	return events, rows.Err()
}

// Delete removes an event. Linked reports keep their copied event data.
func (r *EventRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB().ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting event: %w", err)
	}

	return affected > 0, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (*models.Event, error) {
	var ev models.Event
	var endDate sql.NullString
	var tags, funding, media, guests sql.NullString

	err := s.Scan(
		&ev.ID, &ev.Title, &ev.Description, &ev.StartDate, &endDate, &ev.Status,
		&ev.ResponsibleLastName, &ev.ResponsibleFirstName, &ev.ResponsibleMiddleName,
		&ev.CreatedBy, &tags, &funding, &media, &guests,
		&ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if endDate.Valid && endDate.String != "" {
		ev.EndDate = &endDate.String
	}
	ev.Tags = nullToRaw(tags)
	ev.FundingSources = nullToRaw(funding)
	ev.MediaLinks = nullToRaw(media)
	ev.Guests = nullToRaw(guests)

	return &ev, nil
}

func rawToNull(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func nullToRaw(s sql.NullString) json.RawMessage {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.RawMessage(s.String)
}
