package track

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"fr24export/internal/models"
)

// Normalize turns raw API samples into an ordered, validated TrackSet.
// Individual bad points are dropped and logged, never fatal: unparsable
// timestamps and out-of-range coordinates are excluded, the points are
// stable-sorted ascending by timestamp (ties keep fetch order), and identical
// (timestamp, lat, lon) samples collapse to the first occurrence. Null
// telemetry stays nil. It fails only when the input is empty or nothing
// usable remains.
func Normalize(flightID string, raw []models.RawTrackPoint) (*models.TrackSet, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("no track data for flight %s", flightID)
	}

	pts := make([]models.TrackPoint, 0, len(raw))
	dropped := 0
	for i, r := range raw {
		t, err := parseTimestamp(r.Timestamp)
		if err != nil {
			dropped++
			slog.Debug("Dropping point with bad timestamp",
				"flight_id", flightID, "index", i, "timestamp", r.Timestamp)
			continue
		}
		if r.Lat < -90 || r.Lat > 90 || r.Lon < -180 || r.Lon > 180 {
			dropped++
			slog.Debug("Dropping point with out-of-range coordinates",
				"flight_id", flightID, "index", i, "lat", r.Lat, "lon", r.Lon)
			continue
		}
		pts = append(pts, models.TrackPoint{
			Timestamp: t,
			Lat:       r.Lat,
			Lon:       r.Lon,
			Alt:       r.Alt,
			GSpeed:    r.GSpeed,
			VSpeed:    r.VSpeed,
			Track:     r.Track,
			Squawk:    r.Squawk,
			Callsign:  r.Callsign,
			Source:    r.Source,
		})
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("no usable track points for flight %s (%d dropped)", flightID, dropped)
	}

	sort.SliceStable(pts, func(i, j int) bool {
		return pts[i].Timestamp.Before(pts[j].Timestamp)
	})

	// Duplicate timestamps are legitimate (same-second reports during ground
	// holds); only fully identical (timestamp, lat, lon) samples collapse.
	type sampleKey struct {
		ts       int64
		lat, lon float64
	}
	seen := make(map[sampleKey]bool, len(pts))
	out := pts[:0]
	for _, p := range pts {
		k := sampleKey{p.Timestamp.UnixNano(), p.Lat, p.Lon}
		if seen[k] {
			dropped++
			continue
		}
		seen[k] = true
		out = append(out, p)
	}

	if dropped > 0 {
		slog.Info("Normalized track with exclusions",
			"flight_id", flightID, "kept", len(out), "dropped", dropped)
	}

	return &models.TrackSet{
		FlightID: flightID,
		Points:   out,
		Dropped:  dropped,
	}, nil
}

// parseTimestamp accepts the API's RFC 3339 timestamps and keeps them in UTC.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
