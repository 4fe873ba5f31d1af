package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/curator-portal/backend/internal/storage/models"
)

// ReportRepository provides data access for curator activity reports.
type ReportRepository struct {
	BaseRepository
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new report and returns the stored row.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) (*models.Report, error) {
	report.ID = GenerateID()
	report.CreatedAt = r.Now()
	report.UpdatedAt = report.CreatedAt

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO reports (id, event_id, title, body, event_date, curator_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.ID, report.EventID, report.Title, report.Body,
		report.EventDate, report.CuratorName, report.CreatedAt, report.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting report: %w", err)
	}

	return report, nil
}

// GetByID retrieves a report by its ID. Returns nil, nil when no row exists.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	var eventID sql.NullString

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, event_id, title, body, event_date, curator_name, created_at, updated_at
		FROM reports WHERE id = ?
	`, id).Scan(
		&report.ID, &eventID, &report.Title, &report.Body,
		&report.EventDate, &report.CuratorName, &report.CreatedAt, &report.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying report: %w", err)
	}

	if eventID.Valid {
		report.EventID = &eventID.String
	}

	return &report, nil
}

// List retrieves reports, optionally filtered by event.
func (r *ReportRepository) List(ctx context.Context, eventID string) ([]models.Report, error) {
	query := `
		SELECT id, event_id, title, body, event_date, curator_name, created_at, updated_at
		FROM reports`
	var args []any

	if eventID != "" {
		query += " WHERE event_id = ?"
		args = append(args, eventID)
	}
	query += " ORDER BY event_date DESC, created_at DESC"

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var report models.Report
		var evID sql.NullString
		if err := rows.Scan(
			&report.ID, &evID, &report.Title, &report.Body,
			&report.EventDate, &report.CuratorName, &report.CreatedAt, &report.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		if evID.Valid {
			report.EventID = &evID.String
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

// Update replaces the editable fields of an existing report.
func (r *ReportRepository) Update(ctx context.Context, id string, report *models.Report) (bool, error) {
	res, err := r.DB().ExecContext(ctx, `
		UPDATE reports SET
			title = ?, body = ?, event_date = ?, curator_name = ?, updated_at = ?
		WHERE id = ?
	`, report.Title, report.Body, report.EventDate, report.CuratorName, r.Now(), id)
	if err != nil {
		return false, fmt.Errorf("updating report: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating report: %w", err)
	}

	return affected > 0, nil
}

// Delete removes a report.
func (r *ReportRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB().ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting report: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting report: %w", err)
	}

	return affected > 0, nil
}
