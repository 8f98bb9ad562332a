package services

import (
	"context"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finwise/backend/src/models"
	"github.com/username/finwise/backend/src/security/validation"
)

func TestCreateManualExpenseTypeMapping(t *testing.T) {
	tests := []struct {
		requested string
		want      string
	}{
		{"fixed", models.TypeFixed},
		{"variable", models.TypeVariable},
		{"expense", models.TypeVariable},
		{"income", models.TypeIncome},
	}
	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			store := &fakeExpenseStore{}
			svc := NewExpenseService(store, nil)

			expense, err := svc.Create(context.Background(), 1, candidate("2024-01-01", "Rent", 1200.0, tt.requested))
			require.NoError(t, err)
			assert.Equal(t, tt.want, expense.Type)
			assert.Equal(t, "manual", expense.Source)
		})
	}
}

func TestCreateManualExpenseRejectsMalformed(t *testing.T) {
	svc := NewExpenseService(&fakeExpenseStore{}, nil)
	_, err := svc.Create(context.Background(), 1, candidate("not-a-date", "Rent", 1200.0, "fixed"))
	assert.ErrorIs(t, err, validation.ErrMalformedCandidate)
}

func TestSetCashBalanceValidation(t *testing.T) {
	svc := NewExpenseService(&fakeExpenseStore{}, nil)

	_, err := svc.SetCashBalance(context.Background(), 1, -5)
	assert.ErrorIs(t, err, validation.ErrMalformedCandidate)

	balance, err := svc.SetCashBalance(context.Background(), 1, 1234.567)
	require.NoError(t, err)
	assert.Equal(t, 1234.57, balance.Amount)
}

func TestWritesInvalidateSummaryCache(t *testing.T) {
	store := &fakeExpenseStore{}
	reportCache := cache.New(time.Minute, time.Minute)
	svc := NewExpenseService(store, reportCache)

	reportCache.Set(SummaryCacheKey(1), models.MonthlySummary{Total: 99}, time.Minute)

	_, err := svc.Create(context.Background(), 1, candidate("2024-01-01", "Coffee", 3.5, "variable"))
	require.NoError(t, err)

	_, found := reportCache.Get(SummaryCacheKey(1))
	assert.False(t, found, "a write must drop the cached summary")
}

func TestCurrentMonthSummaryUsesCache(t *testing.T) {
	store := &fakeExpenseStore{}
	reportCache := cache.New(time.Minute, time.Minute)
	svc := NewExpenseService(store, reportCache)

	cached := models.MonthlySummary{Total: 42, Variable: 42}
	reportCache.Set(SummaryCacheKey(1), cached, time.Minute)

	summary, err := svc.CurrentMonthSummary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, cached, summary)
}
