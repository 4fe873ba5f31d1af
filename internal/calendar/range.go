package calendar

import "time"

// MonthGridRange derives the visible range for a month-grid viewport: the
// first day of the first week containing the month's first day, through one
// day past the end of the last week containing the month's last day. The
// partial leading and trailing days from adjacent months that the grid
// shows are therefore included.
//
// Week, day and agenda viewports supply their boundaries directly and do
// not use this derivation.
func MonthGridRange(year int, month time.Month, weekStart time.Weekday) Range {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -daysSinceWeekStart(first.Weekday(), weekStart))
	end := last.AddDate(0, 0, 6-daysSinceWeekStart(last.Weekday(), weekStart)+1)

	return Range{Start: start, End: end}
}

func daysSinceWeekStart(day, weekStart time.Weekday) int {
	return (int(day) - int(weekStart) + 7) % 7
}
