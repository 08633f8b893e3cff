package calendar

import (
	"context"
	"time"

	domain "weekview/internal/domain/calendar"
)

// Store persists calendar events.
type Store interface {
	Save(ctx context.Context, e domain.Event) error
	GetByID(ctx context.Context, id string) (domain.Event, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]domain.Event, error)
	Delete(ctx context.Context, id string) error
}
