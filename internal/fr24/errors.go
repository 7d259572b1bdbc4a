package fr24

import (
	"fmt"
	"time"
)

// The API error taxonomy. Transient failures (rate limiting, upstream 5xx)
// are retried inside the client and only surface once retries are exhausted;
// everything else surfaces immediately.

// AuthenticationError means the API token is missing, invalid or expired.
type AuthenticationError struct {
	StatusCode int
	Message    string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed (status %d): %s", e.StatusCode, e.Message)
}

// NotFoundError means the requested resource does not exist upstream.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Resource)
}

// RateLimitError is returned once the retry budget for HTTP 429 responses is
// exhausted. Attempts counts the retries that were made before giving up.
type RateLimitError struct {
	StatusCode int
	RetryAfter time.Duration
	Attempts   int
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s after %d retries (retry after %v)", e.Message, e.Attempts, e.RetryAfter)
	}
	return fmt.Sprintf("%s after %d retries", e.Message, e.Attempts)
}

// ClientError covers 4xx responses other than 401/403/404/429. These
// indicate caller error and are never retried.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("client error (status %d): %s", e.StatusCode, e.Message)
}

// ServerError is returned when the upstream keeps answering 5xx after the
// fixed number of server-error retries.
type ServerError struct {
	StatusCode int
	Attempts   int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (status %d) after %d attempts: %s", e.StatusCode, e.Attempts, e.Message)
}

// ConnectionError wraps network-level failures: DNS, TLS, refused
// connections, cancelled contexts.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed for %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ValidationError reports malformed caller input (bad date, bad bounds, bad
// flight ID, unknown timezone) before any request is issued.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
