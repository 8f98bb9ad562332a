package parsers

import (
	"fmt"
	"strings"

	"github.com/username/finwise/backend/src/models"
)

// Revolut export columns:
// Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance
const (
	revolutColType        = 0
	revolutColStartedDate = 2
	revolutColDate        = 3
	revolutColDescription = 4
	revolutColAmount      = 5
	revolutMinColumns     = 6
)

type RevolutDecoder struct {
	categorizer *Categorizer
}

func NewRevolutDecoder(categorizer *Categorizer) *RevolutDecoder {
	return &RevolutDecoder{categorizer: categorizer}
}

func (d *RevolutDecoder) Format() BankFormat { return FormatRevolut }

// DecodeLine decodes one Revolut data line. The numeric sign of the
// amount carries the direction; EXCHANGE rows are internal currency
// conversions and are skipped, not failed.
func (d *RevolutDecoder) DecodeLine(fields []string) (*models.RawTransactionCandidate, error) {
	if len(fields) < revolutMinColumns {
		return nil, fmt.Errorf("insufficient columns: got %d, want at least %d", len(fields), revolutMinColumns)
	}

	rowType := strings.TrimSpace(fields[revolutColType])
	if strings.EqualFold(rowType, "EXCHANGE") {
		return nil, nil
	}

	dateStr := strings.TrimSpace(fields[revolutColDate])
	if dateStr == "" {
		dateStr = strings.TrimSpace(fields[revolutColStartedDate])
	}
	description := strings.TrimSpace(fields[revolutColDescription])
	if description == "" {
		description = "Unknown transaction"
	}

	date, err := ParseDate(dateStr, FormatISO)
	if err != nil {
		return nil, err
	}

	amount, err := ParseAmount(fields[revolutColAmount])
	if err != nil {
		return nil, err
	}

	txType := models.TypeExpense
	if amount.IsPositive() {
		txType = models.TypeIncome
	}

	return &models.RawTransactionCandidate{
		Date:        date.Format("2006-01-02"),
		Description: description,
		Amount:      amount.Abs().InexactFloat64(),
		Type:        txType,
		Category:    d.categorizer.Categorize(description),
	}, nil
}
