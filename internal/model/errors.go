package model

import (
	"fmt"
	"time"
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// FetchError reports a failed fetch from one source/company pair.
// The orchestrator logs it and moves on to the next source.
type FetchError struct {
	Source  string
	Company string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch for %s: %v", e.Source, e.Company, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// CorruptStateError means the seen-state file exists but cannot be parsed.
// It is fatal: resetting to an empty set would re-notify every posting.
type CorruptStateError struct {
	Path string
	Err  error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("corrupt seen state %s: %v", e.Path, e.Err)
}

func (e *CorruptStateError) Unwrap() error {
	return e.Err
}

// DeliveryError reports a notification channel failure.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
