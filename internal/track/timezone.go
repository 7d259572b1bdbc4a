package track

import (
	"fmt"
	"strings"
	"time"

	"fr24export/internal/fr24"
	"fr24export/internal/models"
)

// ConvertTimezone returns a copy of ts with every timestamp rewritten into
// the named IANA zone. The UTC offset is resolved independently per
// timestamp, so a flight that crosses a DST transition mid-air carries the
// pre-transition offset on its early points and the post-transition offset on
// its late ones. The input set is not modified.
func ConvertTimezone(ts *models.TrackSet, zone string) (*models.TrackSet, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, &fr24.ValidationError{Field: "timezone", Message: fmt.Sprintf("unknown IANA zone %q", zone)}
	}

	out := &models.TrackSet{
		FlightID: ts.FlightID,
		Points:   make([]models.TrackPoint, len(ts.Points)),
		Zone:     loc,
		Dropped:  ts.Dropped,
	}
	copy(out.Points, ts.Points)
	for i := range out.Points {
		out.Points[i].Timestamp = out.Points[i].Timestamp.In(loc)
	}
	return out, nil
}

// HumanTime renders an instant the way it appears in chart titles and
// toplines, e.g. "August 2, 2025, at 10:38 a.m. ET". The instant is exactly
// the one carried by t; only the presentation changes.
func HumanTime(t time.Time) string {
	meridiem := "a.m."
	if t.Format("PM") == "PM" {
		meridiem = "p.m."
	}
	return fmt.Sprintf("%s, at %s %s %s",
		t.Format("January 2, 2006"), t.Format("3:04"), meridiem, ZoneAbbrev(t))
}

// ZoneAbbrev returns a display abbreviation for t's zone. The common US
// zones collapse their standard/daylight pair into the year-round form
// (EST/EDT become ET) the way flight trackers label times.
func ZoneAbbrev(t time.Time) string {
	abbr := t.Format("MST")
	switch abbr {
	case "EST", "EDT":
		return "ET"
	case "CST", "CDT":
		return "CT"
	case "MST", "MDT":
		return "MT"
	case "PST", "PDT":
		return "PT"
	case "AKST", "AKDT":
		return "AKT"
	case "HST", "HDT":
		return "HT"
	}
	// Zones without a name format as a numeric offset like "-0330"; present
	// those as UTC-3:30 rather than a bare number.
	if strings.HasPrefix(abbr, "+") || strings.HasPrefix(abbr, "-") {
		return "UTC" + t.Format("-07:00")
	}
	return abbr
}
