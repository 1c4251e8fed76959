package wire

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the fixed textual timestamp format emitted to terminals
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// accepted layouts, most specific first
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// FormatTime renders t in UTC with TimeLayout
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime accepts ISO-8601 timestamps with or without zone; zoneless values are UTC
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("wire: unrecognized timestamp %q", s)
}
