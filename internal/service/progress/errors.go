package progress

import "fmt"

// StatsError wraps persistence failures of the stats service.
type StatsError struct {
	// Operation is the read that failed (e.g., "today", "overview")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for StatsError.
func (e *StatsError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StatsError) Unwrap() error {
	return e.Err
}

// NewStatsError returns a new StatsError.
func NewStatsError(operation, message string, err error) *StatsError {
	return &StatsError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
