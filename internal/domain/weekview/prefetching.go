package weekview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"weekview/internal/domain/calendar"
)

// DefaultPrefetchRadius is the number of periods fetched on each side when no radius is given.
const DefaultPrefetchRadius = 1

// ErrInvalidRadius is returned when a prefetch radius below 1 is requested.
var ErrInvalidRadius = errors.New("prefetch radius must be at least 1")

// PrefetchingLoader loads the requested period plus Radius() periods on
// either side of it, so neighbouring periods are ready before the user
// scrolls to them.
type PrefetchingLoader struct {
	inner  Loader
	radius int
}

// Compile-time check that *PrefetchingLoader satisfies Loader.
var _ Loader = (*PrefetchingLoader)(nil)

// NewPrefetchingLoader wraps inner with the default radius of 1.
// PRE: inner is non-nil
// POST: returns a loader fetching 3 periods per Load
func NewPrefetchingLoader(inner Loader) *PrefetchingLoader {
	return &PrefetchingLoader{inner: inner, radius: DefaultPrefetchRadius}
}

// NewPrefetchingLoaderWithRadius wraps inner with a custom radius.
// PRE: inner is non-nil
// POST: returns a loader fetching 2*radius+1 periods per Load, or ErrInvalidRadius if radius < 1
func NewPrefetchingLoaderWithRadius(inner Loader, radius int) (*PrefetchingLoader, error) {
	if radius < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRadius, radius)
	}
	return &PrefetchingLoader{inner: inner, radius: radius}, nil
}

// Radius returns the number of periods fetched before and after the requested one.
func (p *PrefetchingLoader) Radius() int {
	return p.radius
}

// Load returns the events of periodIndex followed by those of each
// neighbouring pair: periodIndex-1, periodIndex+1, periodIndex-2, periodIndex+2, ...
// Events are not deduplicated. The first inner error is returned as is and
// no partial result is produced.
// PRE: none
// POST: inner.Load called once for every index in [periodIndex-radius, periodIndex+radius]
func (p *PrefetchingLoader) Load(ctx context.Context, periodIndex int) ([]calendar.Event, error) {
	events, err := p.inner.Load(ctx, periodIndex)
	if err != nil {
		return nil, err
	}
	// copy so appends never write into the inner loader's backing array
	events = append([]calendar.Event(nil), events...)

	for i := 1; i <= p.radius; i++ {
		before, err := p.inner.Load(ctx, periodIndex-i)
		if err != nil {
			return nil, err
		}
		events = append(events, before...)

		after, err := p.inner.Load(ctx, periodIndex+i)
		if err != nil {
			return nil, err
		}
		events = append(events, after...)
	}

	return events, nil
}

// PeriodIndexFor delegates to the wrapped loader.
func (p *PrefetchingLoader) PeriodIndexFor(t time.Time) float64 {
	return p.inner.PeriodIndexFor(t)
}
