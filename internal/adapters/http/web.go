package web

import (
	"context"
	"net/http"
	"time"

	"weekview/internal/adapters/http/middleware"
	calendarStore "weekview/internal/adapters/storage/calendar"
	"weekview/internal/domain/weekview"
)

// PrefetchLoader is the loader the events API serves from.
// *weekview.PrefetchingLoader satisfies it.
type PrefetchLoader interface {
	weekview.Loader
	Radius() int
}

// Deps holds everything the HTTP layer needs.
type Deps struct {
	EventStore calendarStore.Store
	Loader     PrefetchLoader
	// Location is used to interpret ?date= values. Nil means UTC.
	Location *time.Location
	// Now is overridable for tests. Nil means time.Now.
	Now func() time.Time
}

// Config holds HTTP-layer settings.
type Config struct {
	CSRFKey        []byte // 32 bytes
	SecureCookies  bool
	TrustedOrigins []string
}

type server struct {
	deps Deps
}

// NewMux wires HTTP handlers and middleware for the week view API.
// PRE: deps.EventStore and deps.Loader are non-nil; cfg.CSRFKey is 32 bytes
// POST: returns a handler ready to serve
func NewMux(deps Deps, cfg Config) http.Handler {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &server{deps: deps}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /api/events", s.handleListEvents)
	mux.HandleFunc("POST /api/events", s.handleCreateEvent)
	mux.HandleFunc("GET /api/events/{id}", s.handleGetEvent)
	mux.HandleFunc("DELETE /api/events/{id}", s.handleDeleteEvent)

	// Apply middleware: Timing -> SecurityHeaders -> CSRF -> Mux
	return middleware.Chain(mux,
		middleware.CSRF(cfg.CSRFKey, cfg.SecureCookies, cfg.TrustedOrigins),
		middleware.SecurityHeaders,
		middleware.Timing,
	)
}

// Shutdown drains srv within timeout.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
