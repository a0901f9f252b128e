package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yearcal/internal/config"
	"yearcal/internal/ics"
	"yearcal/internal/model"
	"yearcal/internal/source"
)

type emptyFetcher struct{}

func (emptyFetcher) FetchAll(context.Context, []ics.Source) ([]ics.FetchResult, error) {
	return nil, nil
}

func testStore() *source.Store {
	clock := source.FixedClock(time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC))
	s := source.NewStore(emptyFetcher{}, source.Options{Clock: clock})
	s.Replace([]model.CalendarEvent{
		{ID: "rome", Summary: "Trip to Rome", StartDate: "2026-12-01", EndDate: "2026-12-05", Status: model.StatusConfirmed},
		{ID: "standup", Summary: "Standup", StartDate: "2026-04-06", EndDate: "2026-04-07", Status: model.StatusConfirmed},
	})
	return s
}

func TestSourcesFromConfig(t *testing.T) {
	conf := config.DefaultConfig()
	conf.ICS = []config.ICSConfig{
		{ID: "family", Name: "Family", URL: "https://example.com/f.ics", Color: "#ff887c"},
		{ID: "empty"},
	}
	got := sourcesFromConfig(conf)
	require.Len(t, got, 1)
	assert.Equal(t, ics.Source{ID: "family", Name: "Family", URL: "https://example.com/f.ics", Color: "#ff887c"}, got[0])
}

func TestWriteView(t *testing.T) {
	conf := config.DefaultConfig()
	store := testStore()

	t.Run("year by default", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeView(&buf, store, conf, flagConfig{}))
		var months []json.RawMessage
		require.NoError(t, json.Unmarshal(buf.Bytes(), &months))
		assert.Len(t, months, 12)
	})

	t.Run("linear", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeView(&buf, store, conf, flagConfig{view: "linear", columns: 21}))
		var view struct {
			Grid struct {
				Columns int `json:"columns"`
				Year    int `json:"year"`
			} `json:"grid"`
			Segments []json.RawMessage `json:"segments"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
		assert.Equal(t, 21, view.Grid.Columns)
		assert.Equal(t, 2026, view.Grid.Year)
		assert.Len(t, view.Segments, 2)
	})

	t.Run("trips", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeView(&buf, store, conf, flagConfig{view: "trips", year: 2026}))
		var view struct {
			Upcoming []json.RawMessage `json:"upcoming"`
			Past     []json.RawMessage `json:"past"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
		assert.Len(t, view.Upcoming, 1)
		assert.Empty(t, view.Past)
	})

	t.Run("unknown", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, writeView(&buf, store, conf, flagConfig{view: "agenda"}))
	})
}

func TestRunOnceWithoutSources(t *testing.T) {
	var buf bytes.Buffer
	conf := config.DefaultConfig()
	require.NoError(t, runOnce(context.Background(), testStore(), conf, flagConfig{view: "trips"}, &buf))
	assert.Contains(t, buf.String(), "upcoming")
}
