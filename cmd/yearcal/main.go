package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yearcal/internal/calendar"
	"yearcal/internal/config"
	"yearcal/internal/ics"
	appLog "yearcal/internal/log"
	"yearcal/internal/source"
	"yearcal/internal/web"
)

const (
	fetchTimeout    = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

type flagConfig struct {
	configPath string
	listen     string
	debug      bool
	once       bool
	view       string
	year       int
	columns    int
}

func main() {
	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}
	appLog.Info("yearcal starting", "version", "0.1.0")

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if !flags.debug {
		if lvl, err := appLog.ParseLevel(conf.LogLevel); err == nil {
			appLog.SetLevel(lvl)
		}
	}

	loc := conf.Location()
	store := source.NewStore(
		ics.NewFetcher(conf.CacheDir, &http.Client{Timeout: fetchTimeout}),
		source.Options{
			Sources:      sourcesFromConfig(conf),
			ExcludeTerms: conf.ExcludeTerms,
			Clock:        source.SystemClock{Location: loc},
		},
	)

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", loc.String(),
		"refresh", conf.RefreshCron,
		"ics_count", len(conf.ICS),
		"exclude_terms", len(conf.ExcludeTerms),
		"once", flags.once,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if flags.once {
		if err := runOnce(ctx, store, conf, flags, os.Stdout); err != nil {
			appLog.Error("one-shot run failed", err)
			os.Exit(1)
		}
		return
	}

	if err := serve(ctx, store, conf, loc); err != nil {
		appLog.Error("server failed", err)
		os.Exit(1)
	}
	appLog.Info("yearcal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&cfg.once, "once", false, "Refresh feeds once, print a view as JSON and exit")
	flag.StringVar(&cfg.view, "view", "", "View printed by -once: year, linear or trips (default from config)")
	flag.IntVar(&cfg.year, "year", 0, "Year printed by -once (default current year)")
	flag.IntVar(&cfg.columns, "columns", 0, "Linear view columns (default from config)")

	flag.Parse()

	return cfg
}

func sourcesFromConfig(conf *config.Config) []ics.Source {
	sources := make([]ics.Source, 0, len(conf.ICS))
	for _, c := range conf.ICS {
		if c.URL == "" {
			continue
		}
		sources = append(sources, ics.Source{ID: c.ID, Name: c.Name, URL: c.URL, Color: c.Color})
	}
	return sources
}

// runOnce refreshes, then writes the requested view. A failed refresh is
// logged and the view is printed from whatever loaded.
func runOnce(ctx context.Context, store *source.Store, conf *config.Config, flags flagConfig, w io.Writer) error {
	if err := store.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		appLog.Error("refresh failed; printing partial data", err)
	}
	return writeView(w, store, conf, flags)
}

func writeView(w io.Writer, store *source.Store, conf *config.Config, flags flagConfig) error {
	today := store.Clock().Now()
	year := flags.year
	if year == 0 {
		year = today.Year()
	}
	view := flags.view
	if view == "" {
		view = conf.DefaultView
	}
	columns := flags.columns
	if columns == 0 {
		columns = conf.LinearColumns
	}

	var out any
	switch view {
	case "year":
		out = calendar.LayoutYear(year, store.Visible(), today)
	case "linear":
		out = web.BuildLinearView(year, calendar.NormalizeColumns(columns), store.Events(year), today)
	case "trips":
		out = web.BuildTripsView(year, store.Events(year), today)
	default:
		return fmt.Errorf("unknown view %q", view)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func serve(ctx context.Context, store *source.Store, conf *config.Config, loc *time.Location) error {
	sched, err := source.NewScheduler(conf.RefreshCron, store, loc)
	if err != nil {
		return err
	}

	go func() {
		if err := store.Refresh(ctx); err != nil {
			appLog.Error("initial refresh failed", err)
		}
	}()
	sched.Start()

	srv := &http.Server{
		Addr:              conf.Listen,
		Handler:           web.NewServer(conf, store).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		sched.Stop(context.Background())
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		appLog.Info("signal received, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	sched.Stop(shutdownCtx)
	return srv.Shutdown(shutdownCtx)
}
