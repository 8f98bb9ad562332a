package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finwise/backend/src/models"
	"github.com/username/finwise/backend/src/services"
)

type memoryStore struct {
	expenses []models.Expense
	nextID   int64
}

func (m *memoryStore) Insert(_ context.Context, e *models.Expense) error {
	m.nextID++
	e.ID = m.nextID
	m.expenses = append(m.expenses, *e)
	return nil
}

func (m *memoryStore) FindDuplicate(_ context.Context, userID int64, date string, amount float64, description string) (bool, error) {
	prefix := description
	if runes := []rune(prefix); len(runes) > 20 {
		prefix = string(runes[:20])
	}
	for _, e := range m.expenses {
		if e.UserID == userID && e.Date == date && e.Amount == amount && strings.Contains(e.Description, prefix) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) ListByUser(context.Context, int64) ([]models.Expense, error) { return nil, nil }
func (m *memoryStore) GetByID(context.Context, int64, int64) (*models.Expense, error) {
	return nil, nil
}
func (m *memoryStore) Update(context.Context, *models.Expense) error { return nil }
func (m *memoryStore) Delete(context.Context, int64, int64) error    { return nil }
func (m *memoryStore) MonthlySummary(context.Context, int64, string) (models.MonthlySummary, error) {
	return models.MonthlySummary{}, nil
}
func (m *memoryStore) GetCashBalance(context.Context, int64) (models.CashBalance, error) {
	return models.CashBalance{}, nil
}
func (m *memoryStore) SetCashBalance(_ context.Context, userID int64, amount float64) (models.CashBalance, error) {
	return models.CashBalance{UserID: userID, Amount: amount}, nil
}

func authedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := context.WithValue(req.Context(), userIDContextKey, int64(1))
	return req.WithContext(ctx)
}

func TestHandleImportTransactions(t *testing.T) {
	store := &memoryStore{}
	handler := NewImportHandler(services.NewImportService(store, nil, 1000))

	body := `{
		"transactions": [
			{"date": "2024-01-15", "description": "Albert Heijn", "amount": 25.50, "type": "expense", "category": "groceries"},
			{"date": "", "description": "Missing date", "amount": 10, "type": "expense"}
		],
		"bankType": "ING"
	}`

	rec := httptest.NewRecorder()
	handler.HandleImportTransactions(rec, authedRequest(t, http.MethodPost, "/api/import-transactions", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.ImportSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 2, summary.Total)

	require.Len(t, store.expenses, 1)
	assert.Equal(t, "bank_import_ing", store.expenses[0].Source)
}

func TestHandleImportTransactionsRequiresAuth(t *testing.T) {
	handler := NewImportHandler(services.NewImportService(&memoryStore{}, nil, 1000))

	req := httptest.NewRequest(http.MethodPost, "/api/import-transactions", strings.NewReader(`{"transactions":[]}`))
	rec := httptest.NewRecorder()
	handler.HandleImportTransactions(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleImportTransactionsEmptyBatch(t *testing.T) {
	handler := NewImportHandler(services.NewImportService(&memoryStore{}, nil, 1000))

	rec := httptest.NewRecorder()
	handler.HandleImportTransactions(rec, authedRequest(t, http.MethodPost, "/api/import-transactions", `{"transactions":[]}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleImportTransactionsBatchTooLarge(t *testing.T) {
	handler := NewImportHandler(services.NewImportService(&memoryStore{}, nil, 1))

	body := `{"transactions": [
		{"date": "2024-01-15", "description": "A", "amount": 1, "type": "expense"},
		{"date": "2024-01-16", "description": "B", "amount": 2, "type": "expense"}
	]}`

	rec := httptest.NewRecorder()
	handler.HandleImportTransactions(rec, authedRequest(t, http.MethodPost, "/api/import-transactions", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
