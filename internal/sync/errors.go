package sync

import (
	"fmt"
)

// ValidationError reports a missing or unusable top-level request field.
// Nothing has been read or written when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// RowError identifies the row that aborted a push batch. The whole batch was
// rolled back before it is returned.
type RowError struct {
	Type     string
	Identity string
	Cause    error
}

func (e *RowError) Error() string {
	if e.Identity == "" {
		return fmt.Sprintf("%s row: %v", e.Type, e.Cause)
	}
	return fmt.Sprintf("%s row %s: %v", e.Type, e.Identity, e.Cause)
}

func (e *RowError) Unwrap() error { return e.Cause }

// ForbiddenError reports a row the caller is not allowed to write. It reaches
// callers wrapped in a *RowError.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return "forbidden: " + e.Reason
}
