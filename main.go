package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fr24export/internal/config"
	"fr24export/internal/export"
	"fr24export/internal/fr24"
	"fr24export/internal/models"
)

func initLogger(cfg *config.Config) {
	var logLevel slog.Level
	switch cfg.Log.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
}

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	flightID := flag.String("flight-id", "", "Flight ID(s) to export, comma-separated for a batch")
	batchFile := flag.String("batch", "", "File with one flight ID per line to export as a batch")
	flightNumber := flag.String("flight", "", "Flight number to resolve, e.g. UA123 (requires -date)")
	date := flag.String("date", "", "Flight date as YYYY-MM-DD (used with -flight)")
	selector := flag.String("select", "", "Candidate selection when -flight matches several: index, latest or earliest")
	token := flag.String("token", "", "API token (overrides config and environment)")
	output := flag.String("output", "", "Output directory (default: named after the flight ID)")
	background := flag.String("background", "", "Map background: carto-light, carto-dark, osm or satellite")
	orientation := flag.String("orientation", "", "Map orientation: horizontal, vertical or auto")
	timezone := flag.String("timezone", "", "IANA timezone for exported timestamps (default: UTC)")
	flag.Parse()

	if *configPath != "" {
		os.Setenv("FR24EXPORT_CONFIG_PATH", *configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		// Use basic logging for config errors since logger isn't initialized yet
		basicLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		basicLogger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	if *token != "" {
		cfg.Token = *token
	}
	if cfg.Token == "" {
		slog.Error("No API token: set -token, FR24EXPORT_TOKEN or FLIGHTRADAR_API_KEY")
		os.Exit(1)
	}

	opts := export.Options{
		Background:  cfg.Export.Background,
		Orientation: cfg.Export.Orientation,
		Timezone:    cfg.Export.Timezone,
		OutputDir:   cfg.Export.OutputDir,
	}
	if *background != "" {
		opts.Background = *background
	}
	if *orientation != "" {
		opts.Orientation = *orientation
	}
	if *timezone != "" {
		opts.Timezone = *timezone
	}
	if *output != "" {
		opts.OutputDir = *output
	}

	client := fr24.NewClient(cfg.Token)
	client.BaseURL = cfg.BaseURL

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down...")
		cancel()
	}()

	modes := 0
	for _, set := range []bool{*flightID != "", *flightNumber != "", *batchFile != ""} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		slog.Error("Use exactly one of -flight-id, -flight or -batch")
		os.Exit(1)
	}

	switch {
	case *batchFile != "":
		ids, err := readBatchFile(*batchFile)
		if err != nil {
			slog.Error("Failed to read batch file", "path", *batchFile, "error", err)
			os.Exit(1)
		}
		runBatch(ctx, client, ids, opts)

	case *flightID != "":
		ids := splitIDs(*flightID)
		if len(ids) == 1 {
			runSingle(ctx, client, ids[0], nil, opts)
		} else {
			runBatch(ctx, client, ids, opts)
		}

	case *flightNumber != "":
		if *date == "" {
			slog.Error("-flight requires -date (YYYY-MM-DD)")
			os.Exit(1)
		}
		summary := resolve(ctx, client, cfg, *flightNumber, *date, *selector)
		runSingle(ctx, client, summary.FR24ID, summary, opts)

	default:
		flag.Usage()
		os.Exit(2)
	}
}

// resolve turns a (flight number, date) pair into exactly one flight
// instance, or prints the candidate list when the selection is ambiguous.
func resolve(ctx context.Context, client *fr24.Client, cfg *config.Config, flightNumber, date, selector string) *models.FlightSummary {
	candidates, incomplete, err := client.ResolveFlight(ctx, flightNumber, date, cfg.Export.PageSize, cfg.Export.MaxPages)
	if err != nil {
		slog.Error("Failed to resolve flight", "flight", flightNumber, "date", date, "error", err)
		os.Exit(1)
	}
	if incomplete {
		slog.Warn("Candidate list may be incomplete (page ceiling reached)",
			"flight", flightNumber, "date", date)
	}

	summary, err := fr24.SelectCandidate(candidates, selector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Flight %s on %s matches %d instances:\n", flightNumber, date, len(candidates))
		for i, c := range candidates {
			fmt.Fprintf(os.Stderr, "  [%d] %s  %s  takeoff %s\n",
				i, c.FR24ID, c.Headline(), c.Takeoff.Format("2006-01-02 15:04 MST"))
		}
		fmt.Fprintln(os.Stderr, "Pick one with -select index|latest|earliest")
		os.Exit(1)
	}
	return summary
}

func runSingle(ctx context.Context, client *fr24.Client, flightID string, summary *models.FlightSummary, opts export.Options) {
	bundle, err := export.Bundle(ctx, client, flightID, summary, opts)
	if err != nil {
		slog.Error("Export failed", "flight_id", flightID, "error", err)
		os.Exit(1)
	}
	fmt.Printf("Exported flight %s: %d artifacts in %s\n",
		flightID, len(bundle.Files), bundle.OutputDir)
}

func runBatch(ctx context.Context, client *fr24.Client, ids []string, opts export.Options) {
	bundles, err := export.BundleAll(ctx, client, ids, opts.OutputDir, opts)
	if err != nil {
		slog.Error("Batch export failed", "error", err)
		os.Exit(1)
	}
	for _, b := range bundles {
		fmt.Printf("Exported flight %s: %d artifacts in %s\n",
			b.Track.FlightID, len(b.Files), b.OutputDir)
	}
	if len(bundles) < len(ids) {
		slog.Warn("Some flights failed to export",
			"requested", len(ids), "exported", len(bundles))
	}
}

// readBatchFile reads flight IDs from a file, one per line. Blank lines and
// lines starting with # are skipped.
func readBatchFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no flight IDs in %s", path)
	}
	return ids, nil
}

func splitIDs(s string) []string {
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
