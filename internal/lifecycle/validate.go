package lifecycle

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/curator-portal/backend/internal/storage/models"
)

// MinDescriptionLen is the minimum description length accepted for an event.
const MinDescriptionLen = 100

// ValidationError reports which fields of a snapshot failed validation.
// It is raised before any network call, so no partial state is created.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks the editable field snapshot against the rules a normal
// save enforces. The conducted transition requires the same checks.
func Validate(fields models.EventFields) error {
	problems := make(map[string]string)

	if strings.TrimSpace(fields.Title) == "" {
		problems["title"] = "title is required"
	}

	if utf8.RuneCountInString(fields.Description) < MinDescriptionLen {
		problems["description"] = "description must be at least 100 characters"
	}

	start, err := time.Parse(models.DateLayout, fields.StartDate)
	if fields.StartDate == "" {
		problems["start_date"] = "start date is required"
	} else if err != nil {
		problems["start_date"] = "start date must be YYYY-MM-DD"
	}

	if fields.EndDate != nil && *fields.EndDate != "" {
		end, endErr := time.Parse(models.DateLayout, *fields.EndDate)
		if endErr != nil {
			problems["end_date"] = "end date must be YYYY-MM-DD"
		} else if err == nil && end.Before(start) {
			problems["end_date"] = "end date must not be before start date"
		}
	}

	if strings.TrimSpace(fields.ResponsibleLastName) == "" ||
		strings.TrimSpace(fields.ResponsibleFirstName) == "" {
		problems["responsible"] = "responsible person full name is required"
	}

	if len(problems) > 0 {
		return &ValidationError{Fields: problems}
	}

	return nil
}
