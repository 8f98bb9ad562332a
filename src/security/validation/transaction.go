package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/username/finwise/backend/src/models"
	"github.com/username/finwise/backend/src/parsers"
)

// ErrMalformedCandidate marks a transaction candidate that failed the
// trust boundary checks and must not reach storage.
var ErrMalformedCandidate = errors.New("malformed transaction candidate")

// SanitizeCandidate is the single trust boundary between untrusted
// transaction candidates (decoded statement lines, AI extraction
// output, client-supplied import batches) and storage. It validates
// and normalizes every field, returning a storage-ready expense or
// ErrMalformedCandidate. It never mutates its input.
func SanitizeCandidate(c models.RawTransactionCandidate, source string) (models.Expense, error) {
	date, err := sanitizeDate(c.Date)
	if err != nil {
		return models.Expense{}, err
	}

	description, err := sanitizeDescription(c.Description)
	if err != nil {
		return models.Expense{}, err
	}

	amount, err := coerceAmount(c.Amount)
	if err != nil {
		return models.Expense{}, err
	}

	txType, err := resolveDirection(c.Type)
	if err != nil {
		return models.Expense{}, err
	}

	category := strings.ToLower(strings.TrimSpace(c.Category))
	if category == "" {
		category = models.DefaultCategory
	}

	return models.Expense{
		Description: description,
		Amount:      amount,
		Type:        txType,
		Category:    category,
		Date:        date,
		Source:      source,
	}, nil
}

// sanitizeDate accepts only ISO calendar dates. Anything else is
// rejected rather than defaulted, so a bad import can never silently
// land on today's date.
func sanitizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: missing date", ErrMalformedCandidate)
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return "", fmt.Errorf("%w: invalid date %q", ErrMalformedCandidate, raw)
	}
	return t.Format("2006-01-02"), nil
}

// sanitizeDescription cleans the description and rejects candidates
// that have none left after cleaning. Decoders substitute their own
// placeholder before the candidate gets here; anything still blank at
// this boundary is malformed.
func sanitizeDescription(raw string) (string, error) {
	cleaned := NormalizeWhitespace(StripUnprintable(raw))
	if cleaned == "" {
		return "", fmt.Errorf("%w: missing description", ErrMalformedCandidate)
	}
	return TruncateRunes(cleaned, models.MaxDescriptionLength), nil
}

// coerceAmount accepts the numeric shapes a JSON payload can carry
// (float64, json.Number, or a string in bank notation) and normalizes
// to a positive amount with two decimal places.
func coerceAmount(raw any) (float64, error) {
	var value float64
	switch v := raw.(type) {
	case float64:
		value = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: invalid amount %q", ErrMalformedCandidate, v.String())
		}
		value = f
	case string:
		dec, err := parsers.ParseAmount(v)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid amount %q", ErrMalformedCandidate, v)
		}
		value = dec.InexactFloat64()
	case nil:
		return 0, fmt.Errorf("%w: missing amount", ErrMalformedCandidate)
	default:
		return 0, fmt.Errorf("%w: unsupported amount type %T", ErrMalformedCandidate, raw)
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: non-finite amount", ErrMalformedCandidate)
	}
	value = math.Abs(math.Round(value*100) / 100)
	if value == 0 {
		return 0, fmt.Errorf("%w: zero amount", ErrMalformedCandidate)
	}
	return value, nil
}

// resolveDirection maps the candidate's type field onto the two stored
// directions. Unrecognized markers reject the candidate instead of
// guessing a direction.
func resolveDirection(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case models.TypeIncome, "credit", "bij":
		return models.TypeIncome, nil
	case models.TypeExpense, "debit", "af", models.TypeFixed, models.TypeVariable:
		return models.TypeExpense, nil
	default:
		return "", fmt.Errorf("%w: unknown transaction type %q", ErrMalformedCandidate, raw)
	}
}
