// Package display derives presentation metadata from task dates.
package display

import (
	"fmt"
	"strings"
	"time"
)

// InvalidDate is rendered in place of a value that cannot be parsed.
const InvalidDate = "Invalid Date"

const dateLayout = "02/01/2006 15:04"

// FormatError reports a date string that none of the accepted layouts match.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unparsable date %q", e.Value)
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate reads an ISO-8601 style timestamp. Values without a zone are
// interpreted in time.Local.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &FormatError{Value: s}
}

// FormatDate renders t as DD/MM/YYYY HH:MM in t's own location, or "" when absent.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// FormatDateString parses and formats s. It never fails: an empty value gives ""
// and an unparsable one gives InvalidDate.
func FormatDateString(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	t, err := ParseDate(s)
	if err != nil {
		return InvalidDate
	}
	return FormatDate(&t)
}
