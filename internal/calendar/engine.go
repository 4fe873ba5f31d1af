// Package calendar merges server-fetched events and the recurring
// annotation table into one normalized collection for a visible date range.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/curator-portal/backend/internal/storage/models"
)

// ItemKind discriminates the two calendar item sources.
type ItemKind string

const (
	KindEventInstance   ItemKind = "event_instance"
	KindFixedAnnotation ItemKind = "fixed_annotation"
)

// Item is the normalized, render-ready calendar projection. Exactly one of
// Event and Annotation is set, matching Kind.
type Item struct {
	Kind   ItemKind  `json:"kind"`
	Title  string    `json:"title"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	AllDay bool      `json:"all_day"`

	Event      *models.Event `json:"event,omitempty"`
	Annotation *FixedDate    `json:"annotation,omitempty"`
}

// Range is the visible calendar viewport, inclusive on both ends.
type Range struct {
	Start time.Time
	End   time.Time
}

// EventSource fetches events for a window from the event repository.
type EventSource interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error)
}

// ErrStale marks a LoadVisible call whose response arrived after a newer
// call had already started; its result must not be applied.
var ErrStale = errors.New("calendar load superseded by a newer request")

// eventFetchLimit caps one viewport fetch high enough that truncation
// within a single visible range does not happen silently.
const eventFetchLimit = 1000

// Engine reconciles the two event sources for the currently visible range.
// LoadVisible fully replaces the held collection on every call, so repeated
// calls for the same range are idempotent and stale items cannot survive a
// range change.
type Engine struct {
	source EventSource
	fixed  []FixedDate
	now    func() time.Time

	gen atomic.Uint64

	mu    sync.RWMutex
	items []Item
}

// NewEngine creates an engine over the given source and annotation table.
// A nil table falls back to the built-in defaults.
func NewEngine(source EventSource, fixed []FixedDate) *Engine {
	if fixed == nil {
		fixed = DefaultFixedDates()
	}
	return &Engine{
		source: source,
		fixed:  fixed,
		now:    time.Now,
	}
}

// SetNow overrides the clock. Tests only.
func (e *Engine) SetNow(now func() time.Time) {
	e.now = now
}

// FixedDates returns the configured annotation table.
func (e *Engine) FixedDates() []FixedDate {
	out := make([]FixedDate, len(e.fixed))
	copy(out, e.fixed)
	return out
}

// Items returns the collection produced by the most recent LoadVisible.
func (e *Engine) Items() []Item {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Item, len(e.items))
	copy(out, e.items)
	return out
}

// LoadVisible builds the calendar collection for the given viewport.
//
// Each call claims a generation token before fetching; if a newer call has
// started by the time the fetch resolves, the late result is discarded and
// ErrStale is returned instead of repainting over the newer view.
//
// On a repository failure the engine degrades to fixed annotations only for
// the requested window and returns the error alongside them.
func (e *Engine) LoadVisible(ctx context.Context, rng Range) ([]Item, error) {
	if rng.End.Before(rng.Start) {
		return nil, fmt.Errorf("invalid range: end %s before start %s",
			rng.End.Format(models.DateLayout), rng.Start.Format(models.DateLayout))
	}

	gen := e.gen.Add(1)

	annotations := e.annotationsFor(rng)

	// +1 day: the repository filter treats the upper bound as exclusive,
	// while the viewport end is inclusive.
	events, _, err := e.source.List(ctx, models.EventFilter{
		StartDate: rng.Start.Format(models.DateLayout),
		EndDate:   rng.End.AddDate(0, 0, 1).Format(models.DateLayout),
		Limit:     eventFetchLimit,
		SortBy:    "start_date",
	})

	if e.gen.Load() != gen {
		return nil, ErrStale
	}

	if err != nil {
		e.replace(gen, annotations)
		return annotations, fmt.Errorf("loading events for range: %w", err)
	}

	items := make([]Item, 0, len(events)+len(annotations))
	for i := range events {
		item, ok := eventItem(&events[i])
		if !ok {
			continue
		}
		items = append(items, item)
	}
	items = append(items, annotations...)

	e.replace(gen, items)
	return items, nil
}

// replace installs a freshly built collection unless a newer generation has
// already claimed the view.
func (e *Engine) replace(gen uint64, items []Item) {
	if e.gen.Load() != gen {
		return
	}
	e.mu.Lock()
	e.items = items
	e.mu.Unlock()
}

// annotationsFor instantiates the fixed table for every year overlapping
// the range. When the range starts strictly in the future, the preceding
// year is included as well so paging backward from a far-future view does
// not need another round trip.
func (e *Engine) annotationsFor(rng Range) []Item {
	years := make(map[int]bool)
	for y := rng.Start.Year(); y <= rng.End.Year(); y++ {
		years[y] = true
	}
	if rng.Start.Year() > e.now().Year() {
		years[rng.Start.Year()-1] = true
	}

	sorted := make([]int, 0, len(years))
	for y := range years {
		sorted = append(sorted, y)
	}
	sort.Ints(sorted)

	var items []Item
	for _, year := range sorted {
		for i := range e.fixed {
			fd := e.fixed[i]
			if !fd.ValidFor(year) {
				continue
			}
			day := time.Date(year, fd.Month, fd.Day, 0, 0, 0, 0, time.UTC)
			items = append(items, Item{
				Kind:       KindFixedAnnotation,
				Title:      fd.Title,
				Start:      day,
				End:        day,
				AllDay:     true,
				Annotation: &fd,
			})
		}
	}

	return items
}

// eventItem maps one stored event into a calendar item. Events whose start
// date fails to parse are dropped rather than crashing the whole view.
func eventItem(ev *models.Event) (Item, bool) {
	start, err := time.Parse(models.DateLayout, ev.StartDate)
	if err != nil {
		return Item{}, false
	}

	item := Item{
		Kind:  KindEventInstance,
		Title: ev.Title,
		Start: start,
		Event: ev,
	}

	if ev.SingleDay() {
		item.AllDay = true
		item.End = start
		return item, true
	}

	end, err := time.Parse(models.DateLayout, *ev.EndDate)
	if err != nil {
		// Unreadable end date degrades to a single-day item.
		item.AllDay = true
		item.End = start
		return item, true
	}

	// The store keeps the end date inclusive; calendars render the end
	// boundary as exclusive.
	item.End = end.AddDate(0, 0, 1)
	return item, true
}

// ClassFor assigns the advisory display class for an item. It has no effect
// on data or transitions.
func ClassFor(item Item) string {
	if item.Kind == KindFixedAnnotation {
		return "calendar-annotation"
	}
	if item.Event != nil {
		switch item.Event.Status {
		case models.StatusConducted:
			return "event-conducted"
		case models.StatusCancelled:
			return "event-cancelled"
		}
	}
	return "event-planned"
}
