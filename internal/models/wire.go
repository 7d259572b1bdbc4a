package models

// Wire types for the Flightradar24 API. Optional telemetry fields arrive as
// JSON null and are decoded into pointers so the normalizer can preserve
// "unknown" instead of coercing to zero.

// RawTrackPoint is one element of a flight-tracks response. Timestamps come
// over the wire as RFC 3339 strings and are parsed during normalization so a
// single bad sample never fails the whole set.
type RawTrackPoint struct {
	Timestamp string   `json:"timestamp"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Alt       *float64 `json:"alt"`
	GSpeed    *float64 `json:"gspeed"`
	VSpeed    *float64 `json:"vspeed"`
	Track     *float64 `json:"track"`
	Squawk    string   `json:"squawk"`
	Callsign  string   `json:"callsign"`
	Source    string   `json:"source"`
}

// RawFlightTracks is one entry of the /api/flight-tracks response body,
// which is an array with one element per matching flight instance.
type RawFlightTracks struct {
	FR24ID string          `json:"fr24_id"`
	Tracks []RawTrackPoint `json:"tracks"`
}

// RawFlightSummary is one row of a /api/flight-summary/full page.
type RawFlightSummary struct {
	FR24ID          string `json:"fr24_id"`
	Flight          string `json:"flight"`
	Callsign        string `json:"callsign"`
	OperatingAs     string `json:"operating_as"`
	PaintedAs       string `json:"painted_as"`
	Type            string `json:"type"`
	Reg             string `json:"reg"`
	OrigICAO        string `json:"orig_icao"`
	DestICAO        string `json:"dest_icao"`
	DestICAOActual  string `json:"dest_icao_actual"`
	DatetimeTakeoff string `json:"datetime_takeoff"`
	DatetimeLanded  string `json:"datetime_landed"`
	FlightEnded     bool   `json:"flight_ended"`
}
