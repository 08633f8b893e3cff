package weekview

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"weekview/internal/domain/calendar"
)

// DefaultSlowLoadMs is the default threshold for slow load warnings.
const DefaultSlowLoadMs = 50

var slowLoadMs int64
var slowLoadOnce sync.Once

// getSlowLoadThreshold returns the slow-load threshold, honouring WEEKVIEW_SLOW_LOAD_MS.
func getSlowLoadThreshold() time.Duration {
	slowLoadOnce.Do(func() {
		ms := DefaultSlowLoadMs
		if v := os.Getenv("WEEKVIEW_SLOW_LOAD_MS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				ms = n
			}
		}
		atomic.StoreInt64(&slowLoadMs, int64(ms))
	})
	return time.Duration(atomic.LoadInt64(&slowLoadMs)) * time.Millisecond
}

// TimedLoader wraps a Loader and logs how long each Load takes.
// Results and errors are passed through untouched.
type TimedLoader struct {
	inner     Loader
	threshold time.Duration
}

var _ Loader = (*TimedLoader)(nil)

// NewTimedLoader wraps inner with timing instrumentation.
// PRE: inner is non-nil
// POST: loads slower than threshold log at WARN; threshold <= 0 uses the configured default
func NewTimedLoader(inner Loader, threshold time.Duration) *TimedLoader {
	if threshold <= 0 {
		threshold = getSlowLoadThreshold()
	}
	return &TimedLoader{inner: inner, threshold: threshold}
}

// Load delegates to the wrapped loader and logs the duration.
func (t *TimedLoader) Load(ctx context.Context, periodIndex int) ([]calendar.Event, error) {
	start := time.Now()
	events, err := t.inner.Load(ctx, periodIndex)
	elapsed := time.Since(start)
	durationMs := float64(elapsed.Microseconds()) / 1000.0

	switch {
	case err != nil:
		slog.Warn("load_failed",
			"period", periodIndex,
			"duration_ms", durationMs,
			"error", err.Error(),
		)
	case elapsed >= t.threshold:
		slog.Warn("slow_load",
			"period", periodIndex,
			"events", len(events),
			"duration_ms", durationMs,
		)
	default:
		slog.Debug("load",
			"period", periodIndex,
			"events", len(events),
			"duration_ms", durationMs,
		)
	}
	return events, err
}

// PeriodIndexFor delegates to the wrapped loader.
func (t *TimedLoader) PeriodIndexFor(ts time.Time) float64 {
	return t.inner.PeriodIndexFor(ts)
}
