package calendar

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/curator-portal/backend/internal/storage/models"
)

// Mock EventSource
type mockEventSource struct {
	listFunc func(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error)
}

func (m *mockEventSource) List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, 0, nil
}

func day(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func str(s string) *string { return &s }

func fixedClock(s string) func() time.Time {
	return func() time.Time { return day(s) }
}

func TestEngine_LoadVisible_EventMapping(t *testing.T) {
	ctx := context.Background()

	source := &mockEventSource{}
	source.listFunc = func(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
		return []models.Event{
			{ID: "1", Title: "Без конца", StartDate: "2024-05-01", Status: models.StatusPlanned},
			{ID: "2", Title: "Один день", StartDate: "2024-05-02", EndDate: str("2024-05-02"), Status: models.StatusConducted},
			{ID: "3", Title: "Три дня", StartDate: "2024-05-03", EndDate: str("2024-05-05"), Status: models.StatusPlanned},
			{ID: "4", Title: "Битая дата", StartDate: "not-a-date", Status: models.StatusPlanned},
		}, 4, nil
	}

	engine := NewEngine(source, []FixedDate{})
	engine.SetNow(fixedClock("2024-05-15"))

	items, err := engine.LoadVisible(ctx, Range{Start: day("2024-05-01"), End: day("2024-05-31")})
	if err != nil {
		t.Fatalf("LoadVisible failed: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("got %d items, want 3 (unparseable start dropped)", len(items))
	}

	t.Run("no end date means single all-day item", func(t *testing.T) {
		item := items[0]
		if !item.AllDay {
			t.Error("AllDay = false, want true")
		}
		if !item.End.Equal(item.Start) {
			t.Errorf("End = %v, want equal to Start %v", item.End, item.Start)
		}
	})

	t.Run("end equal to start means single all-day item", func(t *testing.T) {
		item := items[1]
		if !item.AllDay {
			t.Error("AllDay = false, want true")
		}
		if !item.End.Equal(item.Start) {
			t.Errorf("End = %v, want equal to Start %v", item.End, item.Start)
		}
	})

	t.Run("multi-day end is inclusive in store, exclusive on display", func(t *testing.T) {
		item := items[2]
		if item.AllDay {
			t.Error("AllDay = true, want false for a multi-day event")
		}
		if want := day("2024-05-06"); !item.End.Equal(want) {
			t.Errorf("End = %v, want %v (stored end + 1 day)", item.End, want)
		}
	})

	t.Run("source order is preserved", func(t *testing.T) {
		ids := []string{items[0].Event.ID, items[1].Event.ID, items[2].Event.ID}
		if !reflect.DeepEqual(ids, []string{"1", "2", "3"}) {
			t.Errorf("order = %v, want [1 2 3]", ids)
		}
	})
}

func TestEngine_LoadVisible_Filter(t *testing.T) {
	ctx := context.Background()

	var got models.EventFilter
	source := &mockEventSource{}
	source.listFunc = func(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
		got = filter
		return nil, 0, nil
	}

	engine := NewEngine(source, []FixedDate{})
	engine.SetNow(fixedClock("2024-05-15"))

	if _, err := engine.LoadVisible(ctx, Range{Start: day("2024-05-01"), End: day("2024-05-31")}); err != nil {
		t.Fatalf("LoadVisible failed: %v", err)
	}

	if got.StartDate != "2024-05-01" {
		t.Errorf("StartDate = %q, want 2024-05-01", got.StartDate)
	}
	// One past the inclusive viewport end, so an event ending on the last
	// visible day is not excluded.
	if got.EndDate != "2024-06-01" {
		t.Errorf("EndDate = %q, want 2024-06-01", got.EndDate)
	}
	if got.Limit != eventFetchLimit {
		t.Errorf("Limit = %d, want %d", got.Limit, eventFetchLimit)
	}
	if got.SortBy != "start_date" || got.SortDesc {
		t.Errorf("sort = %q desc=%v, want start_date ascending", got.SortBy, got.SortDesc)
	}
}

func TestEngine_LoadVisible_FixedAnnotations(t *testing.T) {
	ctx := context.Background()

	t.Run("year-spanning range instantiates both years", func(t *testing.T) {
		engine := NewEngine(&mockEventSource{}, DefaultFixedDates())
		engine.SetNow(fixedClock("2024-12-15"))

		items, err := engine.LoadVisible(ctx, Range{Start: day("2024-12-01"), End: day("2025-02-01")})
		if err != nil {
			t.Fatalf("LoadVisible failed: %v", err)
		}

		seen := make(map[string]int)
		for _, item := range items {
			if item.Kind != KindFixedAnnotation {
				continue
			}
			if item.Event != nil {
				t.Error("annotation item carries an event payload")
			}
			if !item.AllDay {
				t.Errorf("annotation %q on %v is not all-day", item.Title, item.Start)
			}
			seen[item.Start.Format(models.DateLayout)+" "+item.Title]++
		}

		for _, want := range []string{
			"2024-12-12 День Конституции РФ",
			"2025-01-27 День Снятия блокады Ленинграда",
			"2025-01-25 День российского студенчества",
		} {
			if seen[want] != 1 {
				t.Errorf("annotation %q appeared %d times, want exactly 1", want, seen[want])
			}
		}
	})

	t.Run("far-future range includes the preceding year", func(t *testing.T) {
		engine := NewEngine(&mockEventSource{}, []FixedDate{
			{Month: time.May, Day: 9, Title: "День Победы"},
		})
		engine.SetNow(fixedClock("2026-09-01"))

		items, err := engine.LoadVisible(ctx, Range{Start: day("2030-05-01"), End: day("2030-05-31")})
		if err != nil {
			t.Fatalf("LoadVisible failed: %v", err)
		}

		var years []int
		for _, item := range items {
			if item.Kind == KindFixedAnnotation {
				years = append(years, item.Start.Year())
			}
		}
		if !reflect.DeepEqual(years, []int{2029, 2030}) {
			t.Errorf("annotation years = %v, want [2029 2030]", years)
		}
	})

	t.Run("current-year range does not reach back", func(t *testing.T) {
		engine := NewEngine(&mockEventSource{}, []FixedDate{
			{Month: time.May, Day: 9, Title: "День Победы"},
		})
		engine.SetNow(fixedClock("2024-05-15"))

		items, err := engine.LoadVisible(ctx, Range{Start: day("2024-05-01"), End: day("2024-05-31")})
		if err != nil {
			t.Fatalf("LoadVisible failed: %v", err)
		}

		for _, item := range items {
			if item.Kind == KindFixedAnnotation && item.Start.Year() != 2024 {
				t.Errorf("unexpected annotation year %d", item.Start.Year())
			}
		}
	})

	t.Run("impossible dates are dropped silently", func(t *testing.T) {
		engine := NewEngine(&mockEventSource{}, []FixedDate{
			{Month: time.February, Day: 30, Title: "Не бывает"},
			{Month: time.February, Day: 29, Title: "Високосный"},
		})
		engine.SetNow(fixedClock("2024-01-15"))

		items, err := engine.LoadVisible(ctx, Range{Start: day("2024-01-01"), End: day("2024-12-31")})
		if err != nil {
			t.Fatalf("LoadVisible failed: %v", err)
		}

		if len(items) != 1 || items[0].Title != "Високосный" {
			t.Errorf("items = %+v, want only the Feb 29 entry in a leap year", items)
		}

		// Same table in a non-leap year drops both.
		engine.SetNow(fixedClock("2025-01-15"))
		items, err = engine.LoadVisible(ctx, Range{Start: day("2025-01-01"), End: day("2025-12-31")})
		if err != nil {
			t.Fatalf("LoadVisible failed: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("items = %+v, want none in a non-leap year", items)
		}
	})
}

func TestEngine_LoadVisible_Idempotent(t *testing.T) {
	ctx := context.Background()

	source := &mockEventSource{}
	source.listFunc = func(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
		return []models.Event{
			{ID: "1", Title: "Событие", StartDate: "2024-05-01", Status: models.StatusPlanned},
		}, 1, nil
	}

	engine := NewEngine(source, DefaultFixedDates())
	engine.SetNow(fixedClock("2024-05-15"))
	rng := Range{Start: day("2024-05-01"), End: day("2024-05-31")}

	first, err := engine.LoadVisible(ctx, rng)
	if err != nil {
		t.Fatalf("first LoadVisible failed: %v", err)
	}
	second, err := engine.LoadVisible(ctx, rng)
	if err != nil {
		t.Fatalf("second LoadVisible failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("identical range with unchanged data must yield an identical collection")
	}
	if !reflect.DeepEqual(engine.Items(), second) {
		t.Error("Items() must match the latest LoadVisible result")
	}
}

func TestEngine_LoadVisible_RangeChangeReplaces(t *testing.T) {
	ctx := context.Background()

	source := &mockEventSource{}
	source.listFunc = func(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
		if filter.StartDate == "2024-05-01" {
			return []models.Event{
				{ID: "may", Title: "Майское", StartDate: "2024-05-10", Status: models.StatusPlanned},
			}, 1, nil
		}
		return nil, 0, nil
	}

	engine := NewEngine(source, []FixedDate{})
	engine.SetNow(fixedClock("2024-05-15"))

	if _, err := engine.LoadVisible(ctx, Range{Start: day("2024-05-01"), End: day("2024-05-31")}); err != nil {
		t.Fatalf("LoadVisible failed: %v", err)
	}
	if _, err := engine.LoadVisible(ctx, Range{Start: day("2024-06-01"), End: day("2024-06-30")}); err != nil {
		t.Fatalf("LoadVisible failed: %v", err)
	}

	for _, item := range engine.Items() {
		if item.Kind == KindEventInstance && item.Event.ID == "may" {
			t.Error("stale item from the previous range survived the repaint")
		}
	}
}

func TestEngine_LoadVisible_StaleResponseDiscarded(t *testing.T) {
	ctx := context.Background()

	var engine *Engine
	nested := false

	source := &mockEventSource{}
	source.listFunc = func(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
		// The first, slow request: a newer request starts and finishes
		// while this one is still in flight.
		if !nested {
			nested = true
			if _, err := engine.LoadVisible(ctx, Range{Start: day("2024-06-01"), End: day("2024-06-30")}); err != nil {
				t.Fatalf("nested LoadVisible failed: %v", err)
			}
			return []models.Event{
				{ID: "old", Title: "Устаревшее", StartDate: "2024-05-10", Status: models.StatusPlanned},
			}, 1, nil
		}
		return []models.Event{
			{ID: "new", Title: "Свежее", StartDate: "2024-06-10", Status: models.StatusPlanned},
		}, 1, nil
	}

	engine = NewEngine(source, []FixedDate{})
	engine.SetNow(fixedClock("2024-05-15"))

	_, err := engine.LoadVisible(ctx, Range{Start: day("2024-05-01"), End: day("2024-05-31")})
	if !errors.Is(err, ErrStale) {
		t.Fatalf("err = %v, want ErrStale", err)
	}

	items := engine.Items()
	if len(items) != 1 || items[0].Event.ID != "new" {
		t.Errorf("view = %+v, want only the newer request's result", items)
	}
}

func TestEngine_LoadVisible_SourceFailureDegrades(t *testing.T) {
	ctx := context.Background()

	source := &mockEventSource{}
	source.listFunc = func(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
		return nil, 0, errors.New("backend down")
	}

	engine := NewEngine(source, DefaultFixedDates())
	engine.SetNow(fixedClock("2024-05-15"))

	items, err := engine.LoadVisible(ctx, Range{Start: day("2024-05-01"), End: day("2024-05-31")})
	if err == nil {
		t.Fatal("expected an error from the failed source")
	}

	for _, item := range items {
		if item.Kind != KindFixedAnnotation {
			t.Errorf("degraded view must contain only annotations, got %v", item.Kind)
		}
	}
	if !reflect.DeepEqual(engine.Items(), items) {
		t.Error("degraded collection must still replace the view")
	}
}

func TestClassFor(t *testing.T) {
	cases := []struct {
		item Item
		want string
	}{
		{Item{Kind: KindFixedAnnotation}, "calendar-annotation"},
		{Item{Kind: KindEventInstance, Event: &models.Event{Status: models.StatusPlanned}}, "event-planned"},
		{Item{Kind: KindEventInstance, Event: &models.Event{Status: models.StatusConducted}}, "event-conducted"},
		{Item{Kind: KindEventInstance, Event: &models.Event{Status: models.StatusCancelled}}, "event-cancelled"},
	}

	for _, tc := range cases {
		if got := ClassFor(tc.item); got != tc.want {
			t.Errorf("ClassFor(%v) = %q, want %q", tc.item.Kind, got, tc.want)
		}
	}
}

func TestMonthGridRange(t *testing.T) {
	t.Run("november 2024 monday weeks", func(t *testing.T) {
		rng := MonthGridRange(2024, time.November, time.Monday)
		if want := day("2024-10-28"); !rng.Start.Equal(want) {
			t.Errorf("Start = %v, want %v", rng.Start, want)
		}
		if want := day("2024-12-02"); !rng.End.Equal(want) {
			t.Errorf("End = %v, want %v", rng.End, want)
		}
	})

	t.Run("month starting on week start", func(t *testing.T) {
		// July 2024 starts on a Monday.
		rng := MonthGridRange(2024, time.July, time.Monday)
		if want := day("2024-07-01"); !rng.Start.Equal(want) {
			t.Errorf("Start = %v, want %v", rng.Start, want)
		}
		if want := day("2024-08-05"); !rng.End.Equal(want) {
			t.Errorf("End = %v, want %v", rng.End, want)
		}
	})

	t.Run("sunday weeks", func(t *testing.T) {
		rng := MonthGridRange(2024, time.November, time.Sunday)
		if want := day("2024-10-27"); !rng.Start.Equal(want) {
			t.Errorf("Start = %v, want %v", rng.Start, want)
		}
		if want := day("2024-12-01"); !rng.End.Equal(want) {
			t.Errorf("End = %v, want %v", rng.End, want)
		}
	})
}
