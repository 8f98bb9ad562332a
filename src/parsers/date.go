package parsers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a date string does not decompose into
// a real calendar date for the requested format. Callers must skip the
// offending line; substituting "now" is deliberately not supported.
var ErrInvalidDate = errors.New("invalid date")

// DateFormat identifies the date convention of a bank export.
type DateFormat string

const (
	// FormatDayMonthYear is the Dutch bank convention, e.g. "31-01-2024".
	FormatDayMonthYear DateFormat = "DD-MM-YYYY"
	// FormatISO covers YYYY-MM-DD and a few ISO-ish variants.
	FormatISO DateFormat = "YYYY-MM-DD"
)

// isoFallbackLayouts are tried in order for FormatISO input.
var isoFallbackLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2 Jan 2006",
	"02 Jan 2006",
}

// ParseDate converts a bank-specific date string into a calendar date.
// For FormatDayMonthYear the string must split into exactly three
// numeric components that round-trip to the same day/month/year; this
// catches out-of-range values like "31-02-2024" that lenient calendar
// arithmetic would normalize away.
func ParseDate(raw string, format DateFormat) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrInvalidDate)
	}

	if format == FormatDayMonthYear {
		return parseDayMonthYear(raw)
	}

	for _, layout := range isoFallbackLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

func parseDayMonthYear(raw string) (time.Time, error) {
	parts := strings.Split(raw, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q does not have three components", ErrInvalidDate, raw)
	}

	day, errD := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	year, errY := strconv.Atoi(parts[2])
	if errD != nil || errM != nil || errY != nil {
		return time.Time{}, fmt.Errorf("%w: %q has non-numeric components", ErrInvalidDate, raw)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return time.Time{}, fmt.Errorf("%w: %q is not a real calendar date", ErrInvalidDate, raw)
	}
	return t, nil
}
