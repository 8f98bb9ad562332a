package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"25,50", "25.5"},
		{"25.50", "25.5"},
		{"1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"1,234,567", "1234567"},
		{"€ 12,50", "12.5"},
		{"$99.99", "99.99"},
		{"-45,00", "-45"},
		{"+10,00", "10"},
		{"2500,00", "2500"},
		{"0,005", "0.01"}, // rounds to two decimals before the zero check
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseAmountRejects(t *testing.T) {
	invalid := []string{
		"",
		"abc",
		"12,34,56.78,9",
		"€",
		"0",
		"0,00",
		"0.004", // rounds to zero
		"--5",
	}
	for _, raw := range invalid {
		t.Run("rejects "+raw, func(t *testing.T) {
			_, err := ParseAmount(raw)
			assert.ErrorIs(t, err, ErrInvalidAmount)
		})
	}
}

func TestParseAmountPreservesSign(t *testing.T) {
	neg, err := ParseAmount("-12,34")
	require.NoError(t, err)
	assert.True(t, neg.IsNegative())

	pos, err := ParseAmount("12,34")
	require.NoError(t, err)
	assert.True(t, pos.IsPositive())
}
