package models

import "time"

// TrackPoint is one ADS-B/telemetry sample for a flight.
// Altitude, ground speed, vertical speed and heading are pointers so that
// missing telemetry stays distinguishable from a genuine zero: an aircraft
// on the ground reports alt=null, not alt=0, and downstream charts render
// the two differently.
type TrackPoint struct {
	Timestamp time.Time // UTC at ingestion, rewritten by timezone conversion
	Lat       float64   // decimal degrees, [-90, 90]
	Lon       float64   // decimal degrees, [-180, 180]
	Alt       *float64  // feet
	GSpeed    *float64  // knots
	VSpeed    *float64  // feet per minute
	Track     *float64  // degrees
	Squawk    string
	Callsign  string
	Source    string // data source tag, e.g. "ADSB", "MLAT"
}

// TrackSet is the ordered sequence of normalized points for one flight
// instance. It is immutable once normalization completes; exporters and the
// chart renderer only ever read it, and the timezone transformer returns a
// fresh copy rather than rewriting in place.
type TrackSet struct {
	FlightID string
	Points   []TrackPoint

	// Zone is non-nil once timestamps have been rewritten into a target
	// timezone. Nil means UTC as ingested.
	Zone *time.Location

	// Dropped counts raw points excluded during normalization (bad
	// timestamps, out-of-range coordinates, duplicate samples).
	Dropped int
}

// Start returns the timestamp of the first point, or the zero time for an
// empty set.
func (ts *TrackSet) Start() time.Time {
	if len(ts.Points) == 0 {
		return time.Time{}
	}
	return ts.Points[0].Timestamp
}

// End returns the timestamp of the last point, or the zero time for an
// empty set.
func (ts *TrackSet) End() time.Time {
	if len(ts.Points) == 0 {
		return time.Time{}
	}
	return ts.Points[len(ts.Points)-1].Timestamp
}

// Duration is the elapsed time between the first and last points.
func (ts *TrackSet) Duration() time.Duration {
	return ts.End().Sub(ts.Start())
}
