// Package web serves the JSON API over the layout engine.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"yearcal/internal/calendar"
	"yearcal/internal/config"
	"yearcal/internal/export"
	"yearcal/internal/itinerary"
	appLog "yearcal/internal/log"
	"yearcal/internal/model"
	"yearcal/internal/source"
	"yearcal/internal/trips"
)

// maxItineraryBody bounds POST /api/itinerary bodies.
const maxItineraryBody = 1 << 20

// EventStore is the part of *source.Store the handlers read.
type EventStore interface {
	Visible() []model.CalendarEvent
	Events(year int) []model.CalendarEvent
	Snapshot() source.Snapshot
	Refresh(ctx context.Context) error
	Clock() source.Clock
}

// Server provides the HTTP API.
type Server struct {
	cfg      *config.Config
	store    EventStore
	router   *mux.Router
	validate *validator.Validate
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, store EventStore) *Server {
	s := &Server{
		cfg:      cfg,
		store:    store,
		router:   mux.NewRouter(),
		validate: validator.New(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.Use(logRequests)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	if s.cfg.AuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		api.Use(s.basicAuthMiddleware)
	}
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	api.HandleFunc("/layout/year", s.handleYearLayout).Methods(http.MethodGet)
	api.HandleFunc("/layout/month", s.handleMonthLayout).Methods(http.MethodGet)
	api.HandleFunc("/layout/linear", s.handleLinearLayout).Methods(http.MethodGet)
	api.HandleFunc("/trips", s.handleTrips).Methods(http.MethodGet)
	api.HandleFunc("/trips.ics", s.handleTripsICS).Methods(http.MethodGet)
	api.HandleFunc("/itinerary", s.handleItinerary).Methods(http.MethodPost)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		appLog.Debug("http request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

// basicAuthMiddleware guards the /api subrouter. /health is registered
// outside it and never asks for credentials.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="yearcal", charset="UTF-8"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Refresh(r.Context()); err != nil {
		appLog.Error("api refresh failed", err)
		// Partial refreshes still swap in the sources that worked.
		writeJSON(w, http.StatusBadGateway, s.store.Snapshot())
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

// viewQuery holds the shared query parameters. Zero means "not given".
type viewQuery struct {
	Year    int `validate:"min=1,max=9999"`
	Month   int `validate:"omitempty,min=1,max=12"`
	Columns int `validate:"omitempty,min=7"`
	Width   int `validate:"omitempty,min=1"`
}

func (s *Server) parseQuery(r *http.Request) (viewQuery, error) {
	q := r.URL.Query()
	vq := viewQuery{Year: s.today().Year()}

	fields := []struct {
		name string
		dst  *int
	}{
		{"year", &vq.Year},
		{"month", &vq.Month},
		{"columns", &vq.Columns},
		{"width", &vq.Width},
	}
	for _, f := range fields {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return vq, errors.New("invalid " + f.name)
		}
		*f.dst = n
	}

	if err := s.validate.Struct(vq); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return vq, errors.New("invalid " + strings.ToLower(verrs[0].Field()))
		}
		return vq, err
	}
	return vq, nil
}

func (s *Server) today() time.Time {
	return s.store.Clock().Now()
}

type eventsResponse struct {
	Year   int                   `json:"year"`
	Events []model.CalendarEvent `json:"events"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	vq, err := s.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Year: vq.Year, Events: s.store.Events(vq.Year)})
}

type yearLayoutResponse struct {
	Year   int                    `json:"year"`
	Months []calendar.MonthLayout `json:"months"`
}

// handleYearLayout lays out all visible events; month grids include days of
// the neighbouring years and week layout clips to each row anyway.
func (s *Server) handleYearLayout(w http.ResponseWriter, r *http.Request) {
	vq, err := s.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	months := calendar.LayoutYear(vq.Year, s.store.Visible(), s.today())
	writeJSON(w, http.StatusOK, yearLayoutResponse{Year: vq.Year, Months: months})
}

func (s *Server) handleMonthLayout(w http.ResponseWriter, r *http.Request) {
	vq, err := s.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if vq.Month == 0 {
		writeError(w, http.StatusBadRequest, "month is required")
		return
	}
	layout := calendar.LayoutMonth(vq.Year, time.Month(vq.Month), s.store.Visible(), s.today())
	writeJSON(w, http.StatusOK, layout)
}

// LinearView is the payload of the continuous year grid.
type LinearView struct {
	Grid        *calendar.LinearGrid `json:"grid"`
	Segments    []model.Segment      `json:"segments"`
	TrackCount  map[int]int          `json:"trackCount"`
	Decorations calendar.Decorations `json:"decorations"`
}

// BuildLinearView computes the linear grid with its segments and the per-day
// decoration and birthday lookups.
func BuildLinearView(year, columns int, events []model.CalendarEvent, today time.Time) LinearView {
	grid := calendar.NewLinearGrid(year, columns, today)
	segs := grid.Segments(events)
	return LinearView{
		Grid:        grid,
		Segments:    segs,
		TrackCount:  calendar.TrackCount(segs),
		Decorations: calendar.BuildDecorations(events),
	}
}

func (s *Server) handleLinearLayout(w http.ResponseWriter, r *http.Request) {
	vq, err := s.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	columns := s.cfg.LinearColumns
	switch {
	case vq.Columns > 0:
		columns = vq.Columns
	case vq.Width > 0:
		columns = calendar.ColumnsForWidth(vq.Width, calendar.MinCellSize)
	}
	view := BuildLinearView(vq.Year, calendar.NormalizeColumns(columns), s.store.Events(vq.Year), s.today())
	writeJSON(w, http.StatusOK, view)
}

// TripsView splits the trip list into upcoming and past.
type TripsView struct {
	Year     int          `json:"year"`
	Upcoming []trips.Trip `json:"upcoming"`
	Past     []trips.Trip `json:"past"`
}

// BuildTripsView aggregates the trips and visits among events.
func BuildTripsView(year int, events []model.CalendarEvent, today time.Time) TripsView {
	upcoming, past := trips.Partition(trips.List(events, today))
	return TripsView{Year: year, Upcoming: upcoming, Past: past}
}

func (s *Server) handleTrips(w http.ResponseWriter, r *http.Request) {
	vq, err := s.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, BuildTripsView(vq.Year, s.store.Events(vq.Year), s.today()))
}

func (s *Server) handleTripsICS(w http.ResponseWriter, r *http.Request) {
	vq, err := s.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	now := s.today()
	body, err := export.TripsCalendar(trips.List(s.store.Events(vq.Year), now), now)
	if err != nil {
		appLog.Error("api trips.ics: encode failed", err, "year", vq.Year)
		writeError(w, http.StatusInternalServerError, "failed to encode calendar")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trips-`+strconv.Itoa(vq.Year)+`.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

type itineraryResponse struct {
	itinerary.Itinerary
	HasFlights bool   `json:"hasFlights"`
	Preview    string `json:"preview,omitempty"`
	HasMore    bool   `json:"hasMore,omitempty"`
}

func (s *Server) handleItinerary(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxItineraryBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	it := itinerary.Parse(string(body), s.today())
	resp := itineraryResponse{Itinerary: it, HasFlights: it.HasFlights()}
	if !resp.HasFlights {
		resp.Preview, resp.HasMore = itinerary.Preview(it.Text, itinerary.PreviewLines)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
