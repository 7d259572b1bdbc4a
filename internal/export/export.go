package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fr24export/internal/chart"
	"fr24export/internal/fr24"
	"fr24export/internal/models"
	"fr24export/internal/track"
)

// Fixed artifact names inside the output directory.
const (
	FileCSV           = "data.csv"
	FileGeoJSONPoints = "points.geojson"
	FileGeoJSONLine   = "line.geojson"
	FileKML           = "track.kml"
	FileMap           = "map.png"
	FileSpeedChart    = "speed.png"
	FileAltitudeChart = "altitude.png"
	FileToplines      = "toplines.json"
)

// Options is the configuration surface of one export operation.
type Options struct {
	// Background selects the map tile provider; empty means the default.
	Background string
	// Orientation is horizontal, vertical or auto (empty means auto).
	Orientation string
	// Timezone is an IANA zone identifier; empty keeps UTC.
	Timezone string
	// OutputDir overrides the default directory named after the flight ID.
	OutputDir string
}

// Bundle runs one full export: fetch, normalize, optional timezone
// conversion, then every artifact from the same immutable TrackSet. Format
// writers are fatal on failure (but atomic, so no partial file survives);
// chart rendering degrades with a warning instead of aborting the bundle.
func Bundle(ctx context.Context, client *fr24.Client, flightID string, summary *models.FlightSummary, opts Options) (*models.ExportBundle, error) {
	orientation, err := chart.ParseOrientation(opts.Orientation)
	if err != nil {
		return nil, err
	}
	background, err := chart.ParseBackground(opts.Background)
	if err != nil {
		return nil, err
	}

	raw, err := client.GetFlightTracks(ctx, flightID)
	if err != nil {
		return nil, err
	}

	ts, err := track.Normalize(flightID, raw)
	if err != nil {
		return nil, err
	}
	if opts.Timezone != "" {
		ts, err = track.ConvertTimezone(ts, opts.Timezone)
		if err != nil {
			return nil, err
		}
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = flightID
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	bundle := &models.ExportBundle{
		Track:     ts,
		Summary:   summary,
		OutputDir: outputDir,
	}

	writers := []struct {
		name  string
		write func(path string) error
	}{
		{FileCSV, func(p string) error { return WriteCSV(ts, p) }},
		{FileGeoJSONPoints, func(p string) error { return WriteGeoJSONPoints(ts, p) }},
		{FileGeoJSONLine, func(p string) error { return WriteGeoJSONLine(ts, p) }},
		{FileKML, func(p string) error { return WriteKML(ts, p) }},
		{FileToplines, func(p string) error { return WriteToplines(ts, summary, p) }},
	}
	for _, w := range writers {
		path := filepath.Join(outputDir, w.name)
		if err := w.write(path); err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", w.name, err)
		}
		bundle.Files = append(bundle.Files, path)
		slog.Info("Wrote artifact", "flight_id", flightID, "file", path)
	}

	headline := "Flight " + flightID
	if summary != nil {
		headline = summary.Headline()
	}

	charts := []struct {
		name   string
		render func(path string) error
	}{
		{FileMap, func(p string) error { return chart.RenderMap(ts, background, orientation, p) }},
		{FileSpeedChart, func(p string) error { return chart.RenderSpeedChart(ts, headline, p) }},
		{FileAltitudeChart, func(p string) error { return chart.RenderAltitudeChart(ts, headline, p) }},
	}
	for _, c := range charts {
		path := filepath.Join(outputDir, c.name)
		if err := c.render(path); err != nil {
			// Visualization is best-effort; the data artifacts already exist.
			slog.Warn("Chart rendering failed, continuing without it",
				"flight_id", flightID, "file", c.name, "error", err)
			continue
		}
		bundle.Files = append(bundle.Files, path)
		slog.Info("Wrote artifact", "flight_id", flightID, "file", path)
	}

	return bundle, nil
}

// BundleAll exports several flight IDs as independent sequential calls. One
// failure is logged and skipped; the export fails only when every flight
// does. Each bundle lands in its own subdirectory under baseDir (or the
// per-flight default when baseDir is empty).
func BundleAll(ctx context.Context, client *fr24.Client, flightIDs []string, baseDir string, opts Options) ([]*models.ExportBundle, error) {
	if len(flightIDs) == 0 {
		return nil, &fr24.ValidationError{Field: "flight_ids", Message: "must not be empty"}
	}

	bundles := make([]*models.ExportBundle, 0, len(flightIDs))
	var errs []error
	for _, id := range flightIDs {
		perFlight := opts
		if baseDir != "" {
			perFlight.OutputDir = filepath.Join(baseDir, id)
		} else if opts.OutputDir != "" && len(flightIDs) > 1 {
			perFlight.OutputDir = filepath.Join(opts.OutputDir, id)
		}

		b, err := Bundle(ctx, client, id, nil, perFlight)
		if err != nil {
			if ctx.Err() != nil {
				return bundles, ctx.Err()
			}
			slog.Error("Export failed, continuing with remaining flights",
				"flight_id", id, "error", err)
			errs = append(errs, fmt.Errorf("flight %s: %w", id, err))
			continue
		}
		bundles = append(bundles, b)
	}

	if len(bundles) == 0 {
		return nil, errors.Join(errs...)
	}
	return bundles, nil
}
