package weekview

import (
	"context"
	"fmt"
	"time"

	"weekview/internal/domain/calendar"
)

// EventSource returns the events overlapping the half-open range [from, to).
type EventSource interface {
	ListByRange(ctx context.Context, from, to time.Time) ([]calendar.Event, error)
}

// MonthLoader is a Loader whose periods are calendar months.
// Period index = year*12 + (month-1), so January 2026 is 24312.
type MonthLoader struct {
	source EventSource
	loc    *time.Location
}

var _ Loader = (*MonthLoader)(nil)

// NewMonthLoader creates a MonthLoader reading from source.
// PRE: source is non-nil
// POST: month boundaries are computed in loc (UTC when loc is nil)
func NewMonthLoader(source EventSource, loc *time.Location) *MonthLoader {
	if loc == nil {
		loc = time.UTC
	}
	return &MonthLoader{source: source, loc: loc}
}

// Load returns every event overlapping the month identified by periodIndex.
// Events spanning a month boundary are returned for both months.
// PRE: none
// POST: returns events from the source or the wrapped source error
func (m *MonthLoader) Load(ctx context.Context, periodIndex int) ([]calendar.Event, error) {
	from, to := m.PeriodBounds(periodIndex)
	events, err := m.source.ListByRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load period %d: %w", periodIndex, err)
	}
	return events, nil
}

// PeriodIndexFor returns the month index of t plus the elapsed fraction of the month,
// measured in whole days: (day-1)/daysInMonth.
// PRE: none
// POST: floor of the result is the index Load expects for t; the fraction is in [0, 1)
func (m *MonthLoader) PeriodIndexFor(t time.Time) float64 {
	t = t.In(m.loc)
	return float64(t.Year()*12+int(t.Month())-1) + float64(t.Day()-1)/float64(daysIn(t))
}

// daysIn returns the number of days in t's month.
func daysIn(t time.Time) int {
	firstOfNext := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
	return firstOfNext.AddDate(0, 0, -1).Day()
}

// PeriodBounds returns the first instant of the month and the first instant of the next one.
// PRE: none
// POST: from < to, both in the loader's location
func (m *MonthLoader) PeriodBounds(periodIndex int) (from, to time.Time) {
	year, month := splitMonthIndex(periodIndex)
	from = time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, m.loc)
	to = from.AddDate(0, 1, 0)
	return from, to
}

// splitMonthIndex floors towards negative infinity so that every int maps to a valid month.
func splitMonthIndex(periodIndex int) (year, month int) {
	year = periodIndex / 12
	month = periodIndex % 12
	if month < 0 {
		month += 12
		year--
	}
	return year, month
}
