package entity

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrInvalidFlightNumber rejects malformed flight numbers before any I/O
	ErrInvalidFlightNumber = errors.New("invalid flight number format")

	// ErrFlightNotFound means the provider has no flight for the number/date
	ErrFlightNotFound = errors.New("flight not found")

	// ErrFlightRecordNotFound means the flights table has no matching row
	ErrFlightRecordNotFound = errors.New("flight record not found")

	// ErrDuplicateEvent is returned when inserting a status event whose
	// (flight id, event type, event time) key already exists
	ErrDuplicateEvent = errors.New("duplicate flight status event")
)

// AlreadyLandedError means the flight matching the pickup date has already
// arrived. NextDate carries the next future date the same flight number
// recurs, when the provider returned one.
type AlreadyLandedError struct {
	FlightNumber string
	LandedAt     time.Time
	NextDate     string
}

func (e *AlreadyLandedError) Error() string {
	return fmt.Sprintf("flight %s already landed at %s", e.FlightNumber, e.LandedAt.Format(time.RFC3339))
}

// UpstreamError is a failure reported by the aviation provider. The status
// code is kept for logging; bodies are never surfaced to callers.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return "aviation provider rejected credentials"
	case e.StatusCode == http.StatusTooManyRequests:
		return "aviation provider rate limit exceeded"
	default:
		return fmt.Sprintf("aviation provider error (status %d)", e.StatusCode)
	}
}

// Auth reports whether this is an authentication failure
func (e *UpstreamError) Auth() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// RateLimited reports whether the provider throttled the request
func (e *UpstreamError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}
