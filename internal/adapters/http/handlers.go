package web

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"weekview/internal/domain/calendar"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode_response_failed", "error", err.Error())
	}
}

// renderMarkdown converts an event description to HTML.
// Returns "" for empty input or if rendering fails.
func renderMarkdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		slog.Warn("markdown_render_failed", "error", err.Error())
		return ""
	}
	return buf.String()
}

// eventDTO is the JSON shape of a calendar event.
type eventDTO struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	DescriptionHTML string `json:"description_html,omitempty"`
	Location        string `json:"location,omitempty"`
	Color           string `json:"color"`
	AllDay          bool   `json:"all_day"`
	Start           string `json:"start"`
	End             string `json:"end"`
}

func toEventDTO(e calendar.Event, loc *time.Location) eventDTO {
	return eventDTO{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		DescriptionHTML: renderMarkdown(e.Description),
		Location:        e.Location,
		Color:           e.Color,
		AllDay:          e.AllDay,
		Start:           e.Start.In(loc).Format(time.RFC3339),
		End:             e.End.In(loc).Format(time.RFC3339),
	}
}

// eventsResponse is returned by GET /api/events.
type eventsResponse struct {
	Period      int        `json:"period"`
	PeriodIndex float64    `json:"period_index"`
	Radius      int        `json:"radius"`
	Events      []eventDTO `json:"events"`
}

// handleListEvents handles GET /api/events?date=YYYY-MM-DD or ?period=N.
// Returns the events of the period plus the prefetched neighbours. Duplicates
// from events spanning several periods are returned as the loader produced them.
func (s *server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var period int
	var index float64

	switch {
	case q.Get("period") != "":
		p, err := strconv.Atoi(q.Get("period"))
		if err != nil {
			http.Error(w, "period must be an integer", http.StatusBadRequest)
			return
		}
		period, index = p, float64(p)
	default:
		day := s.deps.Now().In(s.deps.Location)
		if ds := q.Get("date"); ds != "" {
			parsed, err := time.ParseInLocation("2006-01-02", ds, s.deps.Location)
			if err != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			day = parsed
		}
		index = s.deps.Loader.PeriodIndexFor(day)
		period = int(math.Floor(index))
	}

	events, err := s.deps.Loader.Load(r.Context(), period)
	if err != nil {
		internalError(w, err)
		return
	}

	resp := eventsResponse{
		Period:      period,
		PeriodIndex: index,
		Radius:      s.deps.Loader.Radius(),
		Events:      make([]eventDTO, 0, len(events)),
	}
	for _, e := range events {
		resp.Events = append(resp.Events, toEventDTO(e, s.deps.Location))
	}
	writeJSON(w, http.StatusOK, resp)
}

// createEventRequest is the body of POST /api/events.
type createEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Color       string    `json:"color"`
	AllDay      bool      `json:"all_day"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// handleCreateEvent handles POST /api/events.
// PRE: body is JSON with RFC 3339 start and end
// POST: event validated, assigned a UUID and saved; 201 with the stored event
func (s *server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	e := calendar.Event{
		ID:          generateID(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Location:    strings.TrimSpace(req.Location),
		Color:       req.Color,
		AllDay:      req.AllDay,
		Start:       req.Start,
		End:         req.End,
		CreatedAt:   s.deps.Now().UTC(),
	}
	if e.Color == "" {
		e.Color = calendar.DefaultColor
	}
	if err := e.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.deps.EventStore.Save(r.Context(), e); err != nil {
		internalError(w, err)
		return
	}
	slog.Info("event_created", "id", e.ID, "multi_day", e.IsMultiDay())
	writeJSON(w, http.StatusCreated, toEventDTO(e, s.deps.Location))
}

// handleGetEvent handles GET /api/events/{id}.
func (s *server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := uuid.Validate(id); err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}
	e, err := s.deps.EventStore.GetByID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "event not found", http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventDTO(e, s.deps.Location))
}

// handleDeleteEvent handles DELETE /api/events/{id}.
func (s *server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := uuid.Validate(id); err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}
	err := s.deps.EventStore.Delete(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "event not found", http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
