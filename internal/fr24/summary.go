package fr24

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"time"

	"fr24export/internal/models"
)

// GetFlightSummaryPage fetches one page of flight-summary rows for a flight
// number within [from, to). limit and offset drive pagination upstream.
func (c *Client) GetFlightSummaryPage(ctx context.Context, flightNumber string, from, to time.Time, limit, offset int) ([]models.FlightSummary, error) {
	if flightNumber == "" {
		return nil, &ValidationError{Field: "flight", Message: "must not be empty"}
	}

	params := url.Values{}
	params.Set("flights", flightNumber)
	params.Set("flight_datetime_from", from.UTC().Format("2006-01-02T15:04:05"))
	params.Set("flight_datetime_to", to.UTC().Format("2006-01-02T15:04:05"))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	body, err := c.request(ctx, "/api/flight-summary/full", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []models.RawFlightSummary `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unexpected flight-summary payload: %w", err)
	}

	out := make([]models.FlightSummary, 0, len(resp.Data))
	for _, raw := range resp.Data {
		out = append(out, summaryFromRaw(raw))
	}
	return out, nil
}

// ResolveFlight looks up all instances of a flight number on a UTC date via
// the paginated summary endpoint. incomplete is true when the page ceiling
// cut the listing short. Zero candidates yields NotFoundError.
func (c *Client) ResolveFlight(ctx context.Context, flightNumber, date string, pageSize, maxPages int) ([]models.FlightSummary, bool, error) {
	day, err := ValidateDate(date)
	if err != nil {
		return nil, false, err
	}

	from := day
	to := day.Add(24 * time.Hour)
	candidates, incomplete, err := FetchAllPages(ctx, func(ctx context.Context, limit, offset int) ([]models.FlightSummary, error) {
		return c.GetFlightSummaryPage(ctx, flightNumber, from, to, limit, offset)
	}, pageSize, maxPages)
	if err != nil {
		return nil, false, err
	}
	if len(candidates) == 0 {
		return nil, incomplete, &NotFoundError{
			Resource: fmt.Sprintf("flight %s on %s", flightNumber, date),
		}
	}

	slog.Info("Resolved flight number",
		"flight", flightNumber, "date", date, "candidates", len(candidates))
	return candidates, incomplete, nil
}

// SelectCandidate picks one flight instance out of several. selector is a
// zero-based index, "latest" or "earliest" (by takeoff time). An empty
// selector is accepted only when there is exactly one candidate.
func SelectCandidate(candidates []models.FlightSummary, selector string) (*models.FlightSummary, error) {
	if len(candidates) == 0 {
		return nil, &ValidationError{Field: "selector", Message: "no candidates to select from"}
	}

	byTakeoff := make([]models.FlightSummary, len(candidates))
	copy(byTakeoff, candidates)
	sort.SliceStable(byTakeoff, func(i, j int) bool {
		return byTakeoff[i].Takeoff.Before(byTakeoff[j].Takeoff)
	})

	switch selector {
	case "":
		if len(candidates) == 1 {
			return &candidates[0], nil
		}
		return nil, &ValidationError{
			Field:   "selector",
			Message: fmt.Sprintf("%d candidates, pick an index, \"latest\" or \"earliest\"", len(candidates)),
		}
	case "latest":
		return &byTakeoff[len(byTakeoff)-1], nil
	case "earliest":
		return &byTakeoff[0], nil
	default:
		idx, err := strconv.Atoi(selector)
		if err != nil || idx < 0 || idx >= len(candidates) {
			return nil, &ValidationError{
				Field:   "selector",
				Message: fmt.Sprintf("%q is not an index in [0,%d), \"latest\" or \"earliest\"", selector, len(candidates)),
			}
		}
		return &candidates[idx], nil
	}
}

func summaryFromRaw(raw models.RawFlightSummary) models.FlightSummary {
	s := models.FlightSummary{
		FR24ID:       raw.FR24ID,
		Flight:       raw.Flight,
		Callsign:     raw.Callsign,
		OperatingAs:  raw.OperatingAs,
		AircraftType: raw.Type,
		Registration: raw.Reg,
		Origin:       raw.OrigICAO,
		Destination:  raw.DestICAO,
		Ended:        raw.FlightEnded,
	}
	if raw.DestICAOActual != "" {
		s.Destination = raw.DestICAOActual
	}
	s.Takeoff = parseAPITime(raw.DatetimeTakeoff)
	s.Landed = parseAPITime(raw.DatetimeLanded)
	return s
}

// parseAPITime parses the summary endpoint's timestamps, which come with or
// without a zone suffix. Unparsable values become the zero time.
func parseAPITime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
