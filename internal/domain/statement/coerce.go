package statement

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// dateFormats lists accepted layouts, day-first variants ahead of ISO.
// French exports write DD/MM/YYYY; spreadsheet round-trips sometimes
// produce ISO or dotted forms.
var dateFormats = []string{
	"02/01/2006",
	"02/01/06",
	"02-01-2006",
	"02.01.2006",
	"2006-01-02",
	"2006-01-02T15:04:05Z",
}

// ParseDate parses a day-first calendar date. The time component, when
// present, is discarded.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// CleanLabel normalizes a transaction label: control characters removed,
// newlines/tabs and runs of whitespace collapsed to single spaces, trimmed.
func CleanLabel(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
