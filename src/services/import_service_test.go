package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finwise/backend/src/models"
)

// fakeExpenseStore keeps expenses in memory and mirrors the duplicate
// heuristic of the SQL store: same user, exact date, exact amount,
// stored description containing the candidate's 20-rune prefix.
type fakeExpenseStore struct {
	expenses  []models.Expense
	nextID    int64
	insertErr error
	dupErr    error
}

func (f *fakeExpenseStore) Insert(_ context.Context, e *models.Expense) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	e.ID = f.nextID
	f.expenses = append(f.expenses, *e)
	return nil
}

func (f *fakeExpenseStore) FindDuplicate(_ context.Context, userID int64, date string, amount float64, description string) (bool, error) {
	if f.dupErr != nil {
		return false, f.dupErr
	}
	prefix := description
	if runes := []rune(prefix); len(runes) > 20 {
		prefix = string(runes[:20])
	}
	for _, e := range f.expenses {
		if e.UserID == userID && e.Date == date && e.Amount == amount && strings.Contains(e.Description, prefix) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeExpenseStore) ListByUser(_ context.Context, userID int64) ([]models.Expense, error) {
	var out []models.Expense
	for _, e := range f.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExpenseStore) GetByID(context.Context, int64, int64) (*models.Expense, error) {
	return nil, nil
}
func (f *fakeExpenseStore) Update(context.Context, *models.Expense) error { return nil }
func (f *fakeExpenseStore) Delete(context.Context, int64, int64) error    { return nil }
func (f *fakeExpenseStore) MonthlySummary(context.Context, int64, string) (models.MonthlySummary, error) {
	return models.MonthlySummary{}, nil
}
func (f *fakeExpenseStore) GetCashBalance(_ context.Context, userID int64) (models.CashBalance, error) {
	return models.CashBalance{UserID: userID}, nil
}
func (f *fakeExpenseStore) SetCashBalance(_ context.Context, userID int64, amount float64) (models.CashBalance, error) {
	return models.CashBalance{UserID: userID, Amount: amount}, nil
}

func candidate(date, description string, amount any, txType string) models.RawTransactionCandidate {
	return models.RawTransactionCandidate{
		Date:        date,
		Description: description,
		Amount:      amount,
		Type:        txType,
	}
}

func TestImportTransactionsCounts(t *testing.T) {
	store := &fakeExpenseStore{}
	svc := NewImportService(store, nil, 1000)

	batch := []models.RawTransactionCandidate{
		candidate("2024-01-01", "Albert Heijn", 25.50, "expense"),
		candidate("2024-01-02", "Salaris", 2500.00, "income"),
		candidate("", "Missing date", 10.00, "expense"),
		candidate("2024-01-03", "Bad amount", "abc", "expense"),
	}

	summary, err := svc.ImportTransactions(context.Background(), 1, batch, "bank_import_ing")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 0, summary.Duplicates)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, summary.Total, summary.Imported+summary.Duplicates+summary.Failed)
}

func TestImportTransactionsIdempotent(t *testing.T) {
	store := &fakeExpenseStore{}
	svc := NewImportService(store, nil, 1000)

	batch := []models.RawTransactionCandidate{
		candidate("2024-01-01", "Albert Heijn", 25.50, "expense"),
		candidate("2024-01-02", "Salaris", 2500.00, "income"),
	}

	first, err := svc.ImportTransactions(context.Background(), 1, batch, "bank_import_ing")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Imported)

	second, err := svc.ImportTransactions(context.Background(), 1, batch, "bank_import_ing")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 2, second.Duplicates)
	assert.Equal(t, 0, second.Failed)
}

func TestImportTransactionsDuplicateWithinBatch(t *testing.T) {
	store := &fakeExpenseStore{}
	svc := NewImportService(store, nil, 1000)

	dup := candidate("2024-01-01", "Albert Heijn", 25.50, "expense")
	summary, err := svc.ImportTransactions(context.Background(), 1, []models.RawTransactionCandidate{dup, dup}, "bank_import_ing")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 1, summary.Duplicates)
}

func TestImportTransactionsScopedPerUser(t *testing.T) {
	store := &fakeExpenseStore{}
	svc := NewImportService(store, nil, 1000)

	batch := []models.RawTransactionCandidate{
		candidate("2024-01-01", "Albert Heijn", 25.50, "expense"),
	}

	_, err := svc.ImportTransactions(context.Background(), 1, batch, "bank_import_ing")
	require.NoError(t, err)

	// The same transaction for a different user is not a duplicate.
	summary, err := svc.ImportTransactions(context.Background(), 2, batch, "bank_import_ing")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 0, summary.Duplicates)
}

func TestImportTransactionsStorageTypeMapping(t *testing.T) {
	store := &fakeExpenseStore{}
	svc := NewImportService(store, nil, 1000)

	batch := []models.RawTransactionCandidate{
		candidate("2024-01-01", "Albert Heijn", 25.50, "expense"),
		candidate("2024-01-02", "Salaris", 2500.00, "income"),
	}
	_, err := svc.ImportTransactions(context.Background(), 1, batch, "bank_import_ing")
	require.NoError(t, err)

	require.Len(t, store.expenses, 2)
	assert.Equal(t, models.TypeVariable, store.expenses[0].Type)
	assert.Equal(t, models.TypeIncome, store.expenses[1].Type)
	assert.Equal(t, "bank_import_ing", store.expenses[0].Source)
}

func TestImportTransactionsBatchTooLarge(t *testing.T) {
	store := &fakeExpenseStore{}
	svc := NewImportService(store, nil, 2)

	batch := []models.RawTransactionCandidate{
		candidate("2024-01-01", "A", 1.00, "expense"),
		candidate("2024-01-02", "B", 2.00, "expense"),
		candidate("2024-01-03", "C", 3.00, "expense"),
	}

	_, err := svc.ImportTransactions(context.Background(), 1, batch, "bank_import_ing")
	assert.ErrorIs(t, err, ErrBatchTooLarge)
	assert.Empty(t, store.expenses, "an oversized batch must not be partially imported")
}

func TestImportTransactionsStorageErrorsBecomeFailures(t *testing.T) {
	store := &fakeExpenseStore{insertErr: errors.New("disk full")}
	svc := NewImportService(store, nil, 1000)

	batch := []models.RawTransactionCandidate{
		candidate("2024-01-01", "Albert Heijn", 25.50, "expense"),
	}

	summary, err := svc.ImportTransactions(context.Background(), 1, batch, "bank_import_ing")
	require.NoError(t, err, "per-candidate storage errors must not abort the batch")
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0, summary.Imported)
}

func TestImportTransactionsEmptyBatch(t *testing.T) {
	svc := NewImportService(&fakeExpenseStore{}, nil, 1000)
	summary, err := svc.ImportTransactions(context.Background(), 1, nil, "bank_import_ing")
	require.NoError(t, err)
	assert.Zero(t, summary.Total)
}
