package models

import "time"

// FlightSummary identifies one flight instance: one occurrence of a flight
// number on a given date, keyed by the provider's internal flight ID. It is
// produced by the flight-summary lookup and never mutated afterwards; it
// selects which track to fetch and supplies the headline text for charts and
// toplines.json.
type FlightSummary struct {
	FR24ID       string    // opaque internal flight ID
	Flight       string    // IATA flight number, e.g. "UA123"
	Callsign     string    // ICAO callsign, e.g. "UAL123"
	OperatingAs  string    // operator code when different from the marketed flight
	AircraftType string    // ICAO type code, e.g. "B738"
	Registration string    // tail number
	Origin       string    // origin airport ICAO code
	Destination  string    // destination airport ICAO code
	Takeoff      time.Time // zero when not yet departed
	Landed       time.Time // zero when still airborne
	Ended        bool
}

// Headline returns a compact human-readable identification line for chart
// titles, e.g. "UA123 KSFO-KJFK" or the flight ID when nothing better is
// known.
func (s *FlightSummary) Headline() string {
	label := s.Flight
	if label == "" {
		label = s.Callsign
	}
	if label == "" {
		label = s.FR24ID
	}
	if s.Origin != "" && s.Destination != "" {
		return label + " " + s.Origin + "-" + s.Destination
	}
	return label
}

// ExportBundle records the artifacts produced for one TrackSet. Every file
// in a bundle reflects the same normalized TrackSet; nothing is generated
// from a partially updated or re-fetched set.
type ExportBundle struct {
	Track     *TrackSet
	Summary   *FlightSummary // may be nil when exporting by raw flight ID
	OutputDir string
	Files     []string // artifact paths actually written
}
