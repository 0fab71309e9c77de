package view

import (
	"time"

	"github.com/stefanpenner/stratlife/pkg/store"
)

// Month identifies one calendar page.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Add moves the page by n months (negative goes back).
func (m Month) Add(n int) Month {
	return MonthOf(time.Date(m.Year, m.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC))
}

// Next returns the following month.
func (m Month) Next() Month { return m.Add(1) }

// Prev returns the preceding month.
func (m Month) Prev() Month { return m.Add(-1) }

// Days returns the number of days in the month.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday is the weekday of the 1st, which sets the number of blank
// cells before day 1 in a Sunday-first grid.
func (m Month) FirstWeekday() time.Weekday {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Weekday()
}

// String renders e.g. "March 2026".
func (m Month) String() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// Contains reports whether t, read in loc, falls inside the month.
func (m Month) Contains(t time.Time, loc *time.Location) bool {
	t = t.In(loc)
	return t.Year() == m.Year && t.Month() == m.Month
}

// ByCalendarDay buckets goals by the day of month of their due date, read
// in loc. Goals due outside the month are left out. Each day keeps
// collection order.
func ByCalendarDay(goals []store.Goal, m Month, loc *time.Location) map[int][]store.Goal {
	if loc == nil {
		loc = time.Local
	}
	days := make(map[int][]store.Goal)
	for _, g := range goals {
		if g.DueDate.IsZero() || !m.Contains(g.DueDate, loc) {
			continue
		}
		d := g.DueDate.In(loc).Day()
		days[d] = append(days[d], g)
	}
	return days
}
