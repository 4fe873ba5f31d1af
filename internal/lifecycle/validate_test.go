package lifecycle

import (
	"errors"
	"strings"
	"testing"

	"github.com/curator-portal/backend/internal/storage/models"
)

func TestValidate(t *testing.T) {
	str := func(s string) *string { return &s }

	t.Run("valid snapshot", func(t *testing.T) {
		if err := Validate(validFields()); err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
	})

	t.Run("end date equal to start is valid", func(t *testing.T) {
		fields := validFields()
		fields.EndDate = str("2024-05-01")
		if err := Validate(fields); err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
	})

	cases := []struct {
		name    string
		mutate  func(*models.EventFields)
		problem string
	}{
		{
			name:    "blank title",
			mutate:  func(f *models.EventFields) { f.Title = " \t" },
			problem: "title",
		},
		{
			name:    "short description",
			mutate:  func(f *models.EventFields) { f.Description = strings.Repeat("a", MinDescriptionLen-1) },
			problem: "description",
		},
		{
			name:    "missing start date",
			mutate:  func(f *models.EventFields) { f.StartDate = "" },
			problem: "start_date",
		},
		{
			name:    "malformed start date",
			mutate:  func(f *models.EventFields) { f.StartDate = "01.05.2024" },
			problem: "start_date",
		},
		{
			name:    "end before start",
			mutate:  func(f *models.EventFields) { f.EndDate = str("2024-04-30") },
			problem: "end_date",
		},
		{
			name:    "malformed end date",
			mutate:  func(f *models.EventFields) { f.EndDate = str("tomorrow") },
			problem: "end_date",
		},
		{
			name:    "missing responsible last name",
			mutate:  func(f *models.EventFields) { f.ResponsibleLastName = "" },
			problem: "responsible",
		},
		{
			name:    "missing responsible first name",
			mutate:  func(f *models.EventFields) { f.ResponsibleFirstName = "  " },
			problem: "responsible",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := validFields()
			tc.mutate(&fields)

			err := Validate(fields)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if _, ok := vErr.Fields[tc.problem]; !ok {
				t.Errorf("expected problem on %q, got %v", tc.problem, vErr.Fields)
			}
		})
	}

	t.Run("description counts runes, not bytes", func(t *testing.T) {
		fields := validFields()
		// 100 Cyrillic characters are 200 bytes; still valid.
		fields.Description = strings.Repeat("ж", MinDescriptionLen)
		if err := Validate(fields); err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
	})
}
