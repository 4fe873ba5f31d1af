package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/curator-portal/backend/internal/storage/models"
)

// StudentRepository provides data access for the student roster.
type StudentRepository struct {
	BaseRepository
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *DB) *StudentRepository {
	return &StudentRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new roster entry.
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) (*models.Student, error) {
	s.ID = GenerateID()
	s.CreatedAt = r.Now()
	s.UpdatedAt = s.CreatedAt

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO students (id, full_name, group_name, email, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.FullName, s.GroupName, s.Email, s.Phone, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting student: %w", err)
	}

	return s, nil
}

// GetByID retrieves a student by ID. Returns nil, nil when no row exists.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	var s models.Student

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, full_name, group_name, email, phone, created_at, updated_at
		FROM students WHERE id = ?
	`, id).Scan(&s.ID, &s.FullName, &s.GroupName, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying student: %w", err)
	}

	return &s, nil
}

// List retrieves students, optionally filtered by group.
func (r *StudentRepository) List(ctx context.Context, groupName string) ([]models.Student, error) {
	query := `
		SELECT id, full_name, group_name, email, phone, created_at, updated_at
		FROM students`
	var args []any

	if groupName != "" {
		query += " WHERE group_name = ?"
		args = append(args, groupName)
	}
	query += " ORDER BY full_name"

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.FullName, &s.GroupName, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning student: %w", err)
		}
		students = append(students, s)
	}

	return students, rows.Err()
}

// Update replaces a roster entry's fields.
func (r *StudentRepository) Update(ctx context.Context, id string, s *models.Student) (bool, error) {
	res, err := r.DB().ExecContext(ctx, `
		UPDATE students SET full_name = ?, group_name = ?, email = ?, phone = ?, updated_at = ?
		WHERE id = ?
	`, s.FullName, s.GroupName, s.Email, s.Phone, r.Now(), id)
	if err != nil {
		return false, fmt.Errorf("updating student: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating student: %w", err)
	}

	return affected > 0, nil
}

// Delete removes a roster entry.
func (r *StudentRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB().ExecContext(ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting student: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting student: %w", err)
	}

	return affected > 0, nil
}
