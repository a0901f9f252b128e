// Package source keeps the in-memory event set fed from ICS subscriptions.
package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"yearcal/internal/calendar"
	"yearcal/internal/ics"
	appLog "yearcal/internal/log"
	"yearcal/internal/model"
)

// Fetcher is the subset of *ics.Fetcher the store needs.
type Fetcher interface {
	FetchAll(ctx context.Context, sources []ics.Source) ([]ics.FetchResult, error)
}

// Options configures a Store.
type Options struct {
	Sources      []ics.Source
	ExcludeTerms []string
	Clock        Clock

	// YearsBack and YearsAhead widen the expansion window around the current
	// year. Both default to 1.
	YearsBack  int
	YearsAhead int
}

// Store holds the latest expanded events. Reads never block on a refresh.
type Store struct {
	fetcher Fetcher
	opts    Options

	mu        sync.RWMutex
	events    []model.CalendarEvent
	updatedAt time.Time
	lastErr   error
	exclude   []string
}

// Snapshot describes the last refresh.
type Snapshot struct {
	Events    int       `json:"events"`
	UpdatedAt time.Time `json:"updatedAt"`
	Error     string    `json:"error,omitempty"`
}

func NewStore(fetcher Fetcher, opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.YearsBack <= 0 {
		opts.YearsBack = 1
	}
	if opts.YearsAhead <= 0 {
		opts.YearsAhead = 1
	}
	return &Store{fetcher: fetcher, opts: opts, exclude: opts.ExcludeTerms}
}

// Clock returns the store's clock.
func (s *Store) Clock() Clock {
	return s.opts.Clock
}

// Refresh fetches every source, expands it and swaps the event set. A source
// that fails to fetch or parse is left out and its error joined into the
// result; the other sources still update. When no source yields events the
// previous set is kept. Source errors are prefixed with the source ID once.
func (s *Store) Refresh(ctx context.Context) error {
	now := s.opts.Clock.Now()
	rangeStart, rangeEnd, err := ics.YearRange(now.Year()-s.opts.YearsBack, now.Year()+s.opts.YearsAhead)
	if err != nil {
		return err
	}

	results, fetchErr := s.fetcher.FetchAll(ctx, s.opts.Sources)
	errs := []error{fetchErr}

	events := make([]model.CalendarEvent, 0)
	loaded := 0
	for _, res := range results {
		parsed, feedColor, err := ics.ParseICS(res.Source, res.Body)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Source.ID, err))
			continue
		}
		expanded, err := ics.Expand(parsed, ics.ExpandConfig{
			RangeStart: rangeStart,
			RangeEnd:   rangeEnd,
			FeedColor:  feedColor,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Source.ID, err))
			continue
		}
		events = append(events, expanded.Events...)
		loaded++
	}

	joined := errors.Join(errs...)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if loaded == 0 && joined != nil {
		// Keep serving the previous set rather than blanking the calendar.
		s.mu.Lock()
		s.lastErr = joined
		s.mu.Unlock()
		return joined
	}

	s.Replace(events)
	s.mu.Lock()
	s.lastErr = joined
	s.mu.Unlock()

	appLog.Info("events refreshed",
		"sources", len(s.opts.Sources),
		"fetched", len(results),
		"loaded", loaded,
		"events", len(events),
	)
	return joined
}

// Replace swaps the event set directly.
func (s *Store) Replace(events []model.CalendarEvent) {
	sorted := append([]model.CalendarEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartDate != sorted[j].StartDate {
			return sorted[i].StartDate < sorted[j].StartDate
		}
		return sorted[i].ID < sorted[j].ID
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = sorted
	s.updatedAt = s.opts.Clock.Now()
}

// SetExcludeTerms replaces the hidden-title terms.
func (s *Store) SetExcludeTerms(terms []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exclude = append([]string(nil), terms...)
}

// Visible returns every event that is neither cancelled nor excluded. The
// slice is a copy.
func (s *Store) Visible() []model.CalendarEvent {
	s.mu.RLock()
	events, exclude := s.events, s.exclude
	s.mu.RUnlock()

	visible := make([]model.CalendarEvent, 0, len(events))
	for _, e := range events {
		if e.Status != model.StatusCancelled {
			visible = append(visible, e)
		}
	}
	return calendar.FilterExcluded(visible, exclude)
}

// Events returns the visible events overlapping year.
func (s *Store) Events(year int) []model.CalendarEvent {
	return calendar.EventsInYear(s.Visible(), year)
}

// Snapshot reports the state of the last refresh.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Events: len(s.events), UpdatedAt: s.updatedAt}
	if s.lastErr != nil {
		snap.Error = s.lastErr.Error()
	}
	return snap
}
