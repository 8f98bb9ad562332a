package parsers

import (
	"fmt"
	"strings"

	"github.com/username/finwise/backend/src/models"
)

// ING export columns:
// "Datum","Naam/Omschrijving","Rekening","Tegenrekening","Code","Af Bij","Bedrag","MutatieSoort","Mededelingen"
const (
	ingColDate      = 0
	ingColName      = 1
	ingColDirection = 5
	ingColAmount    = 6
	ingMinColumns   = 7
)

type INGDecoder struct {
	categorizer *Categorizer
}

func NewINGDecoder(categorizer *Categorizer) *INGDecoder {
	return &INGDecoder{categorizer: categorizer}
}

func (d *INGDecoder) Format() BankFormat { return FormatING }

// DecodeLine decodes one ING data line. Dates use DD-MM-YYYY, amounts
// use comma decimals, and the "Af Bij" column carries the direction
// ("Bij" is money in, "Af" is money out).
func (d *INGDecoder) DecodeLine(fields []string) (*models.RawTransactionCandidate, error) {
	if len(fields) < ingMinColumns {
		return nil, fmt.Errorf("insufficient columns: got %d, want at least %d", len(fields), ingMinColumns)
	}

	dateStr := strings.TrimSpace(fields[ingColDate])
	description := strings.TrimSpace(fields[ingColName])
	direction := strings.TrimSpace(fields[ingColDirection])
	amountStr := strings.TrimSpace(fields[ingColAmount])

	if dateStr == "" || amountStr == "" || direction == "" {
		return nil, fmt.Errorf("missing required fields: date=%q amount=%q direction=%q", dateStr, amountStr, direction)
	}
	if description == "" {
		description = "Unknown transaction"
	}

	date, err := ParseDate(dateStr, FormatDayMonthYear)
	if err != nil {
		return nil, err
	}

	amount, err := ParseAmount(amountStr)
	if err != nil {
		return nil, err
	}

	txType := models.TypeExpense
	if strings.EqualFold(direction, "Bij") {
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
