package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"fr24export/internal/models"
)

// csvColumns is the fixed header, matching the raw API field names.
var csvColumns = []string{
	"timestamp", "lat", "lon", "alt", "gspeed", "vspeed",
	"track", "squawk", "callsign", "source",
}

// WriteCSV writes one row per track point in normalized order. Unknown
// telemetry becomes an empty cell, not a zero. Output is deterministic:
// re-exporting the same TrackSet yields a byte-identical file.
func WriteCSV(ts *models.TrackSet, path string) error {
	return atomicWrite(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(csvColumns); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		for _, p := range ts.Points {
			row := []string{
				formatTimestamp(p.Timestamp),
				formatFloat(p.Lat),
				formatFloat(p.Lon),
				formatOptional(p.Alt),
				formatOptional(p.GSpeed),
				formatOptional(p.VSpeed),
				formatOptional(p.Track),
				p.Squawk,
				p.Callsign,
				p.Source,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// formatTimestamp renders RFC 3339 in the point's zone (UTC unless the set
// was timezone-converted, in which case the offset rides along).
func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

// formatFloat uses the shortest representation that round-trips, keeping
// exports stable across runs.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
