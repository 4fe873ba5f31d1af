package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/curator-portal/backend/internal/api/middleware"
	"github.com/curator-portal/backend/internal/storage"
	"github.com/curator-portal/backend/internal/storage/models"
)

// ListStudents returns roster entries, optionally filtered by group.
func ListStudents(repo *storage.StudentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, err := repo.List(r.Context(), r.URL.Query().Get("group"))
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query students")
			return
		}

		if students == nil {
			students = []models.Student{}
		}

		writeJSON(w, http.StatusOK, students)
	}
}

// GetStudent returns a single roster entry.
func GetStudent(repo *storage.StudentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		student, err := repo.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query student")
			return
		}
		if student == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Student not found")
			return
		}

		writeJSON(w, http.StatusOK, student)
	}
}

// CreateStudent adds a roster entry.
func CreateStudent(repo *storage.StudentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var student models.Student
		if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if strings.TrimSpace(student.FullName) == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Student full name is required")
			return
		}

		created, err := repo.Create(r.Context(), &student)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create student")
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

// UpdateStudent replaces a roster entry's fields.
func UpdateStudent(repo *storage.StudentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var student models.Student
		if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if strings.TrimSpace(student.FullName) == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Student full name is required")
			return
		}

		id := mux.Vars(r)["id"]
		updated, err := repo.Update(r.Context(), id, &student)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update student")
			return
		}
		if !updated {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Student not found")
			return
		}

		current, err := repo.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query student")
			return
		}

		writeJSON(w, http.StatusOK, current)
	}
}

// DeleteStudent removes a roster entry.
func DeleteStudent(repo *storage.StudentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := repo.Delete(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete student")
			return
		}
		if !deleted {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Student not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
