package helpers

import (
	"fmt"
	"time"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type AnalyserError struct {
	Message string
	Cause   error
}

func (e *AnalyserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AnalyserError) Unwrap() error {
	return e.Cause
}

// Distinct error types for the pipeline failure taxonomy.
type ConfigurationError struct{ AnalyserError }
type FetchError struct{ AnalyserError }
type ComputationError struct{ AnalyserError }
type DatabaseError struct{ AnalyserError }
type BroadcastError struct{ AnalyserError }

// -----------------------------------------------------------------------------

func NewFetchError(msg string, cause error) *FetchError {
	return &FetchError{AnalyserError{Message: msg, Cause: cause}}
}

func NewDatabaseError(msg string, cause error) *DatabaseError {
	return &DatabaseError{AnalyserError{Message: msg, Cause: cause}}
}

func NewConfigurationError(msg string, cause error) *ConfigurationError {
	return &ConfigurationError{AnalyserError{Message: msg, Cause: cause}}
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff attempts fn up to maxRetries times with exponential backoff.
func RetryWithBackoff(maxRetries int, baseDelay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == maxRetries-1 {
			break
		}
		time.Sleep(baseDelay * (1 << attempt))
	}

	return lastErr
}
