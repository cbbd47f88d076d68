package translator

import (
	"errors"
	"fmt"
	"time"
)

// APIError indicates the translation service rejected or failed the request
// (non-2xx response, transport failure, or an unusable response body).
type APIError struct {
	StatusCode int // 0 when the request never reached the service
	Reason     string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("translation API error (status %d): %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("translation API error: %s", e.Reason)
}

func (e *APIError) Unwrap() error { return e.Err }

// RateLimitError indicates the service returned 429 (quota exhausted).
// There is no built-in retry; the caller decides whether and when to retry,
// using RetryAfter as a hint when the service provided one.
type RateLimitError struct {
	RetryAfter time.Duration
	Body       string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// TimeoutError indicates the request exceeded the configured timeout.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("translation request timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// IsRateLimit reports whether err is (or wraps) a RateLimitError.
func IsRateLimit(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}

// IsTimeout reports whether err is (or wraps) a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
