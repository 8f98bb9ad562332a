package parsers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateDayMonthYear(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("31-01-2024", FormatDayMonthYear)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("leap day", func(t *testing.T) {
		got, err := ParseDate("29-02-2024", FormatDayMonthYear)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), got)
	})

	invalid := []string{
		"31-02-2024", // February has no day 31
		"29-02-2023", // not a leap year
		"00-01-2024",
		"01-13-2024",
		"2024-01-31", // wrong component order for this format
		"31/01/2024",
		"aa-bb-cccc",
		"31-01",
		"",
	}
	for _, raw := range invalid {
		t.Run("rejects "+raw, func(t *testing.T) {
			_, err := ParseDate(raw, FormatDayMonthYear)
			assert.ErrorIs(t, err, ErrInvalidDate)
		})
	}
}

func TestParseDateISO(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2024-01-15", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15 13:45:00", time.Date(2024, time.January, 15, 13, 45, 0, 0, time.UTC)},
		{"15/01/2024", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{"2 Jan 2024", time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)},
		{"02 Jan 2024", time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDate(tt.raw, FormatISO)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseDate("not a date", FormatISO)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}
