package parsers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when an amount string is not numeric
// after normalization, or evaluates to exactly zero. Zero-amount rows
// are noise, not transactions.
var ErrInvalidAmount = errors.New("invalid amount")

var currencyReplacer = strings.NewReplacer(
	"€", "",
	"$", "",
	"£", "",
	" ", "", // non-breaking space
	" ", "",
)

// ParseAmount normalizes a locale-specific numeric string into a signed
// decimal rounded to two fractional digits. Currency symbols and
// whitespace are stripped; both "1.234,56" (comma decimal) and
// "1,234.56" (point decimal) notations are understood. The sign is
// preserved so callers can derive direction from it; the stored
// magnitude is always the absolute value.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := currencyReplacer.Replace(strings.TrimSpace(raw))
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}

	s = normalizeSeparators(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	d = d.Round(2)
	if d.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: %q is zero", ErrInvalidAmount, raw)
	}
	return d, nil
}

// normalizeSeparators converts European comma-decimal notation to point
// notation and strips thousands separators. The rightmost of '.' and
// ',' is taken as the decimal separator when both appear.
func normalizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastPoint := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastPoint >= 0:
		if lastComma > lastPoint {
			// "1.234,56": points are thousands separators.
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// "1,234.56": commas are thousands separators.
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			// "1,234,567": thousands separators only.
			s = strings.ReplaceAll(s, ",", "")
		} else {
			// "25,50": comma decimal.
			s = strings.Replace(s, ",", ".", 1)
		}
	}
	return s
}
