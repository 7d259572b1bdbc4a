package export

import (
	"time"

	"fr24export/internal/models"
	"fr24export/internal/track"
)

// Toplines is the compact human-readable summary written alongside the data
// artifacts. Machine times are RFC 3339 in the export's zone; the readable
// variants refer to the exact same instants.
type Toplines struct {
	FlightNumber          string `json:"flight_number"`
	FlightID              string `json:"flight_id"`
	Date                  string `json:"date"`
	Origin                string `json:"origin"`
	Destination           string `json:"destination"`
	DepartureTime         string `json:"departure_time"`
	ArrivalTime           string `json:"arrival_time"`
	DepartureTimeReadable string `json:"departure_time_readable"`
	ArrivalTimeReadable   string `json:"arrival_time_readable"`
	Registration          string `json:"registration"`
	AircraftType          string `json:"aircraft_type"`
}

// BuildToplines assembles the summary record. Departure and arrival fall back
// to the first and last track points when the summary lookup did not supply
// takeoff/landing instants (or was skipped entirely).
func BuildToplines(ts *models.TrackSet, summary *models.FlightSummary) Toplines {
	departure := ts.Start()
	arrival := ts.End()

	tl := Toplines{
		FlightID: ts.FlightID,
	}
	if summary != nil {
		tl.FlightNumber = summary.Flight
		tl.Origin = summary.Origin
		tl.Destination = summary.Destination
		tl.Registration = summary.Registration
		tl.AircraftType = summary.AircraftType
		if !summary.Takeoff.IsZero() {
			departure = summary.Takeoff
		}
		if !summary.Landed.IsZero() {
			arrival = summary.Landed
		}
	}

	// Keep the summary's instants but present them in the export's zone.
	if ts.Zone != nil {
		departure = departure.In(ts.Zone)
		arrival = arrival.In(ts.Zone)
	} else {
		departure = departure.UTC()
		arrival = arrival.UTC()
	}

	tl.Date = departure.Format("2006-01-02")
	tl.DepartureTime = departure.Format(time.RFC3339)
	tl.ArrivalTime = arrival.Format(time.RFC3339)
	tl.DepartureTimeReadable = track.HumanTime(departure)
	tl.ArrivalTimeReadable = track.HumanTime(arrival)
	return tl
}

// WriteToplines writes toplines.json for one bundle.
func WriteToplines(ts *models.TrackSet, summary *models.FlightSummary, path string) error {
	return writeJSON(path, BuildToplines(ts, summary))
}
