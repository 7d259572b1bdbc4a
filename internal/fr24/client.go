package fr24

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"fr24export/internal/models"
)

const defaultBaseURL = "https://fr24api.flightradar24.com"

// RetryConfig controls the backoff schedule for transient failures.
type RetryConfig struct {
	// MaxRetries bounds retries for rate-limited (429) responses.
	MaxRetries int
	// ServerRetries bounds retries for upstream 5xx responses.
	ServerRetries int
	// InitialDelay is the first backoff delay.
	InitialDelay time.Duration
	// MaxDelay caps the backoff delay.
	MaxDelay time.Duration
	// Multiplier grows the delay between attempts.
	Multiplier float64
	// Jitter adds up to this fraction of the delay at random, so synchronized
	// clients don't hammer the API in lockstep. Zero disables jitter.
	Jitter float64
	// RespectRetryAfter uses the Retry-After header when present.
	RespectRetryAfter bool
}

// DefaultRetryConfig returns the retry schedule used in production.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        5,
		ServerRetries:     2,
		InitialDelay:      time.Second,
		MaxDelay:          60 * time.Second,
		Multiplier:        2.0,
		Jitter:            0.2,
		RespectRetryAfter: true,
	}
}

// Client talks to the Flightradar24 API. The token is supplied once at
// construction and never appears in exported artifacts. All requests go
// through the rate limiter and the retry schedule; callers wanting an
// overall deadline impose it through ctx.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Retry      RetryConfig
}

// NewClient returns a client with production defaults: 10 s request timeout
// and at most 2 requests per second to stay under the provider's limit.
func NewClient(token string) *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Limiter:    rate.NewLimiter(rate.Limit(2), 1),
		Retry:      DefaultRetryConfig(),
	}
}

// request issues an authenticated GET and maps the response onto the error
// taxonomy. 429s are retried with exponential backoff and jitter, 5xx a small
// fixed number of times; all other non-200s fail immediately.
func (c *Client) request(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	u := c.BaseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	delay := c.Retry.InitialDelay
	rateRetries := 0
	serverRetries := 0

	for attempt := 0; ; attempt++ {
		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx); err != nil {
				return nil, &ConnectionError{URL: u, Err: err}
			}
		}

		status, header, body, err := c.do(ctx, u)
		if err != nil {
			return nil, &ConnectionError{URL: u, Err: err}
		}

		slog.Debug("API request", "endpoint", endpoint, "status", status, "attempt", attempt)

		switch {
		case status == http.StatusOK:
			return body, nil

		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return nil, &AuthenticationError{StatusCode: status, Message: trimBody(body)}

		case status == http.StatusNotFound:
			return nil, &NotFoundError{Resource: endpoint}

		case status == http.StatusTooManyRequests:
			if rateRetries >= c.Retry.MaxRetries {
				return nil, &RateLimitError{
					StatusCode: status,
					RetryAfter: parseRetryAfter(header),
					Attempts:   rateRetries,
					Message:    "rate limit exceeded",
				}
			}
			wait := delay
			if c.Retry.RespectRetryAfter {
				if ra := parseRetryAfter(header); ra > 0 {
					wait = ra
				}
			}
			if c.Retry.Jitter > 0 {
				wait += time.Duration(rand.Float64() * c.Retry.Jitter * float64(wait))
			}
			rateRetries++
			slog.Warn("Rate limited, backing off",
				"endpoint", endpoint, "retry", rateRetries, "wait", wait)
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, &ConnectionError{URL: u, Err: err}
			}
			delay = nextDelay(delay, c.Retry)

		case status >= 500:
			if serverRetries >= c.Retry.ServerRetries {
				return nil, &ServerError{
					StatusCode: status,
					Attempts:   serverRetries + 1,
					Message:    trimBody(body),
				}
			}
			serverRetries++
			slog.Warn("Server error, retrying",
				"endpoint", endpoint, "status", status, "retry", serverRetries, "wait", delay)
			if err := sleepCtx(ctx, delay); err != nil {
				return nil, &ConnectionError{URL: u, Err: err}
			}
			delay = nextDelay(delay, c.Retry)

		default:
			return nil, &ClientError{StatusCode: status, Message: trimBody(body)}
		}
	}
}

// do performs one HTTP round trip with the auth headers the API requires.
func (c *Client) do(ctx context.Context, u string) (int, http.Header, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Version", "v1")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, err
	}
	return resp.StatusCode, resp.Header, body, nil
}

// nextDelay advances the exponential backoff, capped at MaxDelay.
func nextDelay(delay time.Duration, cfg RetryConfig) time.Duration {
	next := time.Duration(float64(delay) * cfg.Multiplier)
	if next > cfg.MaxDelay {
		return cfg.MaxDelay
	}
	return next
}

// sleepCtx waits for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// parseRetryAfter reads a Retry-After header in either delay-seconds or
// HTTP-date form. Returns 0 when absent or unusable.
func parseRetryAfter(header http.Header) time.Duration {
	v := header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// trimBody keeps error messages readable when the API returns a long body.
func trimBody(body []byte) string {
	const max = 200
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// GetFlightTracks fetches the raw ADS-B track for one flight instance.
func (c *Client) GetFlightTracks(ctx context.Context, flightID string) ([]models.RawTrackPoint, error) {
	if flightID == "" {
		return nil, &ValidationError{Field: "flight_id", Message: "must not be empty"}
	}

	params := url.Values{}
	params.Set("flight_id", flightID)
	body, err := c.request(ctx, "/api/flight-tracks", params)
	if err != nil {
		return nil, err
	}

	// The endpoint answers with an array of {fr24_id, tracks} entries, one
	// per matching flight instance. Some deployments return a bare object
	// instead; accept both.
	var entries []models.RawFlightTracks
	if err := json.Unmarshal(body, &entries); err != nil {
		var single models.RawFlightTracks
		if err2 := json.Unmarshal(body, &single); err2 != nil {
			return nil, fmt.Errorf("unexpected flight-tracks payload: %w", err)
		}
		entries = []models.RawFlightTracks{single}
	}

	for _, e := range entries {
		if e.FR24ID == "" || e.FR24ID == flightID {
			return e.Tracks, nil
		}
	}
	return nil, &NotFoundError{Resource: "flight " + flightID}
}

// GetLivePositions fetches current positions inside a bounding box. bounds is
// "north,south,west,east" in decimal degrees; extra filters (registrations,
// callsigns, ...) pass through untouched.
func (c *Client) GetLivePositions(ctx context.Context, bounds string, filters url.Values) (json.RawMessage, error) {
	if err := ValidateBounds(bounds); err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("bounds", bounds)
	for k, vs := range filters {
		for _, v := range vs {
			params.Add(k, v)
		}
	}
	return c.request(ctx, "/api/live/flight-positions/light", params)
}

// GetLiveFlightsByRegistration fetches current positions for one airframe.
func (c *Client) GetLiveFlightsByRegistration(ctx context.Context, registration string) (json.RawMessage, error) {
	if registration == "" {
		return nil, &ValidationError{Field: "registration", Message: "must not be empty"}
	}
	params := url.Values{}
	params.Set("registrations", registration)
	return c.request(ctx, "/api/live/flight-positions/light", params)
}

// GetAirlineLight fetches basic airline info by ICAO code.
func (c *Client) GetAirlineLight(ctx context.Context, icao string) (json.RawMessage, error) {
	if icao == "" {
		return nil, &ValidationError{Field: "icao", Message: "must not be empty"}
	}
	return c.request(ctx, "/api/static/airlines/"+url.PathEscape(icao)+"/light", nil)
}

// GetAirportFull fetches detailed airport info by IATA or ICAO code.
func (c *Client) GetAirportFull(ctx context.Context, code string) (json.RawMessage, error) {
	if code == "" {
		return nil, &ValidationError{Field: "code", Message: "must not be empty"}
	}
	return c.request(ctx, "/api/static/airports/"+url.PathEscape(code)+"/full", nil)
}
