package calendar

import (
	"errors"
	"regexp"
	"time"
)

// Max length constants.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxLocationLength    = 200
)

// DefaultColor is used when an event is saved without a color.
const DefaultColor = "#59dbe0"

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Event is a single entry shown in the week view.
// PRE: Title is non-empty. Start and End are set.
// INVARIANT: End is after Start.
type Event struct {
	ID          string
	Title       string
	Description string // markdown
	Location    string
	Color       string // "#rrggbb"
	AllDay      bool
	Start       time.Time
	End         time.Time
	CreatedAt   time.Time
}

// Validate checks the event's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (e *Event) Validate() error {
	if e.Title == "" {
		return errors.New("event title cannot be empty")
	}
	if len(e.Title) > MaxTitleLength {
		return errors.New("event title cannot exceed 200 characters")
	}
	if e.Start.IsZero() {
		return errors.New("event start is required")
	}
	if e.End.IsZero() {
		return errors.New("event end is required")
	}
	if !e.End.After(e.Start) {
		return errors.New("event end must be after start")
	}
	if len(e.Description) > MaxDescriptionLength {
		return errors.New("event description cannot exceed 2000 characters")
	}
	if len(e.Location) > MaxLocationLength {
		return errors.New("event location cannot exceed 200 characters")
	}
	if e.Color != "" && !colorPattern.MatchString(e.Color) {
		return errors.New("event color must be a #rrggbb hex value")
	}
	return nil
}

// IsMultiDay returns true if the event spans more than one calendar day.
// An event ending exactly at midnight does not count the following day.
// PRE: none
// POST: returns true if the last instant of the event falls on a later day than Start
func (e *Event) IsMultiDay() bool {
	if e.End.IsZero() || !e.End.After(e.Start) {
		return false
	}
	last := e.End.Add(-time.Nanosecond)
	return last.Format("2006-01-02") != e.Start.Format("2006-01-02")
}

// Overlaps reports whether the event intersects the half-open range [from, to).
// PRE: from is before to
// POST: returns true if any instant of the event lies inside the range
func (e *Event) Overlaps(from, to time.Time) bool {
	return e.Start.Before(to) && e.End.After(from)
}
