package calendar

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFixedDate_ValidFor(t *testing.T) {
	cases := []struct {
		date  FixedDate
		year  int
		valid bool
	}{
		{FixedDate{Month: time.December, Day: 12}, 2024, true},
		{FixedDate{Month: time.February, Day: 29}, 2024, true},
		{FixedDate{Month: time.February, Day: 29}, 2025, false},
		{FixedDate{Month: time.February, Day: 30}, 2024, false},
		{FixedDate{Month: time.April, Day: 31}, 2024, false},
	}

	for _, tc := range cases {
		if got := tc.date.ValidFor(tc.year); got != tc.valid {
			t.Errorf("ValidFor(%d-%02d in %d) = %v, want %v",
				tc.date.Month, tc.date.Day, tc.year, got, tc.valid)
		}
	}
}

func TestLoadFixedDates(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dates.yaml")
		content := `
- month: 12
  day: 12
  title: День Конституции РФ
- month: 1
  day: 27
  title: День Снятия блокады Ленинграда
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		dates, err := LoadFixedDates(path)
		if err != nil {
			t.Fatalf("LoadFixedDates failed: %v", err)
		}
		if len(dates) != 2 {
			t.Fatalf("got %d dates, want 2", len(dates))
		}
		if dates[0].Month != time.December || dates[0].Day != 12 || dates[0].Title != "День Конституции РФ" {
			t.Errorf("unexpected first entry: %+v", dates[0])
		}
	})

	t.Run("invalid entry rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dates.yaml")
		content := `
- month: 13
  day: 1
  title: Нет такого месяца
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadFixedDates(path); err == nil {
			t.Fatal("expected an error for month 13")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadFixedDates(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatal("expected an error for a missing file")
		}
	})
}

func TestDefaultFixedDates(t *testing.T) {
	dates := DefaultFixedDates()
	if len(dates) == 0 {
		t.Fatal("default table must not be empty")
	}
	for _, d := range dates {
		// Every built-in entry must exist in an arbitrary non-leap year.
		if !d.ValidFor(2025) {
			t.Errorf("default entry %+v is not a valid date", d)
		}
		if d.Title == "" {
			t.Errorf("default entry %+v has no title", d)
		}
	}
}
