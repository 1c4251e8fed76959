package catalog

import (
	"errors"
	"fmt"
)

// ErrUnknownType is returned by Resolve for undeclared entity types
var ErrUnknownType = errors.New("unknown entity type")

// ConfigurationError reports an invalid catalog declaration.
// It is fatal at startup and never produced at request time.
type ConfigurationError struct {
	Type   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Type == "" {
		return "catalog configuration: " + e.Reason
	}
	return fmt.Sprintf("catalog configuration: %s: %s", e.Type, e.Reason)
}

func configErrorf(typeName, format string, args ...interface{}) error {
	return &ConfigurationError{Type: typeName, Reason: fmt.Sprintf(format, args...)}
}
