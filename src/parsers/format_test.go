package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    BankFormat
	}{
		{
			name:    "ING quoted header",
			content: `"Datum","Naam/Omschrijving","Rekening","Tegenrekening","Code","Af Bij","Bedrag (EUR)"`,
			want:    FormatING,
		},
		{
			name:    "Revolut header",
			content: "Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance",
			want:    FormatRevolut,
		},
		{
			name:    "Revolut mentioned in body",
			content: "statement exported from Revolut app",
			want:    FormatRevolut,
		},
		{
			name:    "no fingerprint",
			content: "Date,Payee,Amount\n2024-01-01,Someone,5.00",
			want:    FormatUnknown,
		},
		{
			name:    "empty content",
			content: "",
			want:    FormatUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.content))
		})
	}
}

func TestGetDecoder(t *testing.T) {
	categorizer := NewCategorizer(DefaultCategoryRules)

	ing, err := GetDecoder(FormatING, categorizer)
	require.NoError(t, err)
	assert.Equal(t, FormatING, ing.Format())

	revolut, err := GetDecoder(FormatRevolut, categorizer)
	require.NoError(t, err)
	assert.Equal(t, FormatRevolut, revolut.Format())

	_, err = GetDecoder(FormatUnknown, categorizer)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
