// Package weekview provides the loaders that feed calendar events to the week view.
package weekview

import (
	"context"
	"time"

	"weekview/internal/domain/calendar"
)

// Loader fetches events one period at a time.
// What a period is (a week, a month) is decided by the implementation.
type Loader interface {
	// Load returns the events for the given period.
	Load(ctx context.Context, periodIndex int) ([]calendar.Event, error)

	// PeriodIndexFor maps an instant onto the loader's period axis.
	// The fractional part is the position inside the period.
	PeriodIndexFor(t time.Time) float64
}
