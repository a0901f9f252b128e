package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yearcal/internal/config"
	"yearcal/internal/ics"
	"yearcal/internal/model"
	"yearcal/internal/source"
)

var today = source.FixedClock(time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC))

type failingFetcher struct{}

func (failingFetcher) FetchAll(context.Context, []ics.Source) ([]ics.FetchResult, error) {
	return nil, errors.New("feed unreachable")
}

func testEvents() []model.CalendarEvent {
	return []model.CalendarEvent{
		{ID: "rome", Summary: "Trip to Rome", StartDate: "2026-12-01", EndDate: "2026-12-05", Status: model.StatusConfirmed},
		{ID: "cr", Summary: "Costa Rica trip", StartDate: "2026-02-10", EndDate: "2026-02-15", Status: model.StatusConfirmed},
		{ID: "ana", Summary: "Ana's birthday", StartDate: "2026-03-04", EndDate: "2026-03-05", Status: model.StatusConfirmed},
		{ID: "conf", Summary: "Conference", StartDate: "2026-03-02", EndDate: "2026-03-06", Status: model.StatusConfirmed},
		{ID: "grandma", Summary: "Visit: Grandma", StartDate: "2026-11-10", EndDate: "2026-11-12", Status: model.StatusConfirmed},
		{ID: "old", Summary: "Old", StartDate: "2025-05-01", EndDate: "2025-05-02", Status: model.StatusConfirmed},
	}
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *httptest.Server {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	store := source.NewStore(failingFetcher{}, source.Options{Clock: today})
	store.Replace(testEvents())

	srv := httptest.NewServer(NewServer(cfg, store).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, func(c *config.Config) {
		c.BasicAuth = &config.BasicAuthConfig{Username: "admin", Password: "secret"}
	})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBasicAuth(t *testing.T) {
	srv := newTestServer(t, func(c *config.Config) {
		c.BasicAuth = &config.BasicAuthConfig{Username: "admin", Password: "secret"}
	})

	resp, err := http.Get(srv.URL + "/api/events")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("WWW-Authenticate"), "Basic")

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/events", nil)
	require.NoError(t, err)
	req.SetBasicAuth("admin", "secret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEvents(t *testing.T) {
	srv := newTestServer(t, nil)

	var body eventsResponse
	resp := getJSON(t, srv.URL+"/api/events", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2026, body.Year)
	assert.Len(t, body.Events, 5)

	resp = getJSON(t, srv.URL+"/api/events?year=2025", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body.Events, 1)
	assert.Equal(t, "old", body.Events[0].ID)
}

func TestQueryValidation(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		path string
		msg  string
	}{
		{"/api/events?year=abc", "invalid year"},
		{"/api/events?year=0", "invalid year"},
		{"/api/layout/month?year=2026&month=13", "invalid month"},
		{"/api/layout/month?year=2026", "month is required"},
		{"/api/layout/linear?columns=3", "invalid columns"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var body struct {
				Error string `json:"error"`
			}
			resp := getJSON(t, srv.URL+tt.path, &body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.msg, body.Error)
		})
	}
}

func TestYearAndMonthLayout(t *testing.T) {
	srv := newTestServer(t, nil)

	var year yearLayoutResponse
	getJSON(t, srv.URL+"/api/layout/year?year=2026", &year)
	require.Len(t, year.Months, 12)
	assert.Equal(t, "Jan", year.Months[0].Name)

	var month struct {
		Name  string `json:"name"`
		Weeks []struct {
			Days   []model.CalendarDay `json:"days"`
			Events []model.LayoutEvent `json:"events"`
			Rows   int                 `json:"rows"`
		} `json:"weeks"`
	}
	getJSON(t, srv.URL+"/api/layout/month?year=2026&month=3", &month)
	assert.Equal(t, "Mar", month.Name)
	require.NotEmpty(t, month.Weeks)

	// Mar 2 2026 is a Monday: the conference and the birthday share week 2.
	week := month.Weeks[1]
	assert.Equal(t, "2026-03-02", week.Days[0].DateString)
	assert.Len(t, week.Events, 2)
	assert.Equal(t, 2, week.Rows)
}

func TestLinearLayout(t *testing.T) {
	srv := newTestServer(t, nil)

	var view struct {
		Grid struct {
			Columns      int `json:"columns"`
			PaddingStart int `json:"paddingStart"`
		} `json:"grid"`
		Segments    []model.Segment `json:"segments"`
		Decorations struct {
			Birthdays map[string][]model.CalendarEvent `json:"birthdays"`
		} `json:"decorations"`
	}
	getJSON(t, srv.URL+"/api/layout/linear?year=2026", &view)
	assert.Equal(t, 14, view.Grid.Columns)
	assert.Equal(t, 3, view.Grid.PaddingStart)
	assert.NotEmpty(t, view.Segments)
	for _, seg := range view.Segments {
		assert.NotEqual(t, "ana", seg.Event.ID)
	}
	assert.Len(t, view.Decorations.Birthdays["2026-03-04"], 1)

	getJSON(t, srv.URL+"/api/layout/linear?year=2026&width=900", &view)
	assert.Equal(t, 14, view.Grid.Columns)
	getJSON(t, srv.URL+"/api/layout/linear?year=2026&columns=30", &view)
	assert.Equal(t, 28, view.Grid.Columns)
}

func TestTrips(t *testing.T) {
	srv := newTestServer(t, nil)

	var view struct {
		Upcoming []struct {
			ID          string `json:"id"`
			DisplayName string `json:"displayName"`
		} `json:"upcoming"`
		Past []struct {
			ID string `json:"id"`
		} `json:"past"`
	}
	getJSON(t, srv.URL+"/api/trips?year=2026", &view)
	require.Len(t, view.Upcoming, 1)
	assert.Equal(t, "rome", view.Upcoming[0].ID)
	require.Len(t, view.Past, 1)
	assert.Equal(t, "cr", view.Past[0].ID)
}

func TestTripsICS(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/trips.ics?year=2026")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/calendar"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "trips-2026.ics")
}

func TestItinerary(t *testing.T) {
	srv := newTestServer(t, nil)

	post := func(body string) itineraryResponse {
		t.Helper()
		resp, err := http.Post(srv.URL+"/api/itinerary", "text/plain", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out itineraryResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	got := post("Flight: UA 2312\nDeparture: San Francisco SFO 12:05am, Dec 27\nArrival: SJO 8:32am\nConfirmation: ABC123")
	assert.True(t, got.HasFlights)
	assert.Equal(t, "ABC123", got.Confirmation)
	require.Len(t, got.Sections, 1)
	assert.Equal(t, "2312", got.Sections[0].Flights[0].Number)

	got = post("Pack sunscreen\n\nBook dinner\nCall mom")
	assert.False(t, got.HasFlights)
	assert.Equal(t, "Pack sunscreen\nBook dinner", got.Preview)
	assert.True(t, got.HasMore)

	resp, err := http.Get(srv.URL + "/api/itinerary")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRefreshFailure(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+"/api/refresh", "text/plain", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var snap source.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, 6, snap.Events)
	assert.Contains(t, snap.Error, "feed unreachable")
}
