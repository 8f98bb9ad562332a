package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finwise/backend/src/models"
)

const ingSample = `"Datum","Naam/Omschrijving","Rekening","Tegenrekening","Code","Af Bij","Bedrag (EUR)","MutatieSoort","Mededelingen"
"01-01-2024","Albert Heijn Amsterdam","NL01INGB0001","","BA","Af","25,50","Betaalautomaat",""
"02-01-2024","Salaris januari","NL01INGB0001","NL99WERK0001","OV","Bij","2500,00","Overschrijving",""
"31-02-2024","Bad date row","NL01INGB0001","","BA","Af","10,00","Betaalautomaat",""
"03-01-2024","Shell Station A2","NL01INGB0001","","BA","Af","60,00","Betaalautomaat",""
`

func TestParseStatementING(t *testing.T) {
	categorizer := NewCategorizer(DefaultCategoryRules)
	decoder := NewINGDecoder(categorizer)

	result, err := ParseStatement(strings.NewReader(ingSample), decoder)
	require.NoError(t, err)

	require.Len(t, result.Candidates, 3)
	assert.Equal(t, 1, result.Failed, "the impossible date must count as a failure")

	groceries := result.Candidates[0]
	assert.Equal(t, "2024-01-01", groceries.Date)
	assert.Equal(t, "Albert Heijn Amsterdam", groceries.Description)
	assert.Equal(t, 25.50, groceries.Amount)
	assert.Equal(t, models.TypeExpense, groceries.Type)
	assert.Equal(t, "groceries", groceries.Category)

	salary := result.Candidates[1]
	assert.Equal(t, models.TypeIncome, salary.Type)
	assert.Equal(t, 2500.00, salary.Amount)
	assert.Equal(t, "salary", salary.Category)

	fuel := result.Candidates[2]
	assert.Equal(t, "transport", fuel.Category)
}

const revolutSample = `Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance
CARD_PAYMENT,Current,2024-01-05 10:00:00,2024-01-05 10:00:00,Netflix.com,-12.99,0.00,EUR,COMPLETED,500.00
EXCHANGE,Current,2024-01-06 09:00:00,2024-01-06 09:00:00,EUR to USD,-100.00,0.00,EUR,COMPLETED,400.00
TRANSFER,Current,2024-01-07 08:00:00,,Refund from webshop,30.00,0.00,EUR,COMPLETED,430.00
CARD_PAYMENT,Current,2024-01-08 12:00:00,2024-01-08 12:00:00,Broken amount,abc,0.00,EUR,COMPLETED,430.00
`

func TestParseStatementRevolut(t *testing.T) {
	categorizer := NewCategorizer(DefaultCategoryRules)
	decoder := NewRevolutDecoder(categorizer)

	result, err := ParseStatement(strings.NewReader(revolutSample), decoder)
	require.NoError(t, err)

	// EXCHANGE is skipped silently, the broken amount counts as failed.
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, 1, result.Failed)

	netflix := result.Candidates[0]
	assert.Equal(t, "2024-01-05", netflix.Date)
	assert.Equal(t, models.TypeExpense, netflix.Type)
	assert.Equal(t, 12.99, netflix.Amount)
	assert.Equal(t, "entertainment", netflix.Category)

	// Missing completed date falls back to the started date; positive
	// amount means income.
	refund := result.Candidates[1]
	assert.Equal(t, "2024-01-07", refund.Date)
	assert.Equal(t, models.TypeIncome, refund.Type)
	assert.Equal(t, 30.00, refund.Amount)
}

func TestParseStatementSkipsBlankLinesAndHeader(t *testing.T) {
	content := "\n\n" + `"Datum","Naam/Omschrijving","Rekening","Tegenrekening","Code","Af Bij","Bedrag (EUR)"` + "\n\n" +
		`"01-01-2024","Coffee","NL01","","BA","Af","3,50"` + "\n"

	decoder := NewINGDecoder(NewCategorizer(DefaultCategoryRules))
	result, err := ParseStatement(strings.NewReader(content), decoder)
	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)
	assert.Zero(t, result.Failed)
}

func TestParseStatementEmptyInput(t *testing.T) {
	decoder := NewINGDecoder(NewCategorizer(DefaultCategoryRules))
	result, err := ParseStatement(strings.NewReader(""), decoder)
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
	assert.Zero(t, result.Failed)
}

func TestDecodeLineShortRow(t *testing.T) {
	decoder := NewINGDecoder(NewCategorizer(DefaultCategoryRules))
	_, err := decoder.DecodeLine([]string{"01-01-2024", "Too short"})
	assert.Error(t, err)
}
