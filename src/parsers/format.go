package parsers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/username/finwise/backend/src/models"
)

// ErrUnknownFormat is returned when no bank fingerprint matches the
// uploaded content. The upload is rejected rather than silently parsed
// with the first supported format.
var ErrUnknownFormat = errors.New("unknown bank export format")

// BankFormat tags the column layout and date convention of an export.
// Detection runs once per uploaded document; the format is immutable
// for the rest of the batch.
type BankFormat string

const (
	FormatING     BankFormat = "ing"
	FormatRevolut BankFormat = "revolut"
	FormatUnknown BankFormat = "unknown"
)

// LineDecoder turns the fields of one data line into an untrusted
// transaction candidate. A nil candidate with a nil error means the
// line is intentionally skipped (e.g. a currency exchange row); an
// error means the line is unparseable and should be counted as failed.
// A single bad line never aborts the batch.
type LineDecoder interface {
	DecodeLine(fields []string) (*models.RawTransactionCandidate, error)
	Format() BankFormat
}

// DetectFormat scans the full raw content, case-insensitively, for
// known format fingerprints.
func DetectFormat(content string) BankFormat {
	lower := strings.ToLower(content)

	if strings.Contains(lower, "type,product,started date") ||
		strings.Contains(lower, "completed date") ||
		strings.Contains(lower, "revolut") {
		return FormatRevolut
	}
	if strings.Contains(lower, "datum,naam/omschrijving") ||
		strings.Contains(lower, `"datum","naam/omschrijving"`) ||
		strings.Contains(lower, "af bij") {
		return FormatING
	}
	return FormatUnknown
}

// GetDecoder returns the line decoder for a detected format.
func GetDecoder(format BankFormat, categorizer *Categorizer) (LineDecoder, error) {
	switch format {
	case FormatING:
		return NewINGDecoder(categorizer), nil
	case FormatRevolut:
		return NewRevolutDecoder(categorizer), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
