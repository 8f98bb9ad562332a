package services

import (
	"context"

	"github.com/username/finwise/backend/src/models"
)

// ExpenseStorer is the storage surface the services depend on.
// *store.ExpenseStore is the production implementation; tests supply
// in-memory fakes.
type ExpenseStorer interface {
	Insert(ctx context.Context, e *models.Expense) error
	FindDuplicate(ctx context.Context, userID int64, date string, amount float64, description string) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Expense, error)
	GetByID(ctx context.Context, id, userID int64) (*models.Expense, error)
	Update(ctx context.Context, e *models.Expense) error
	Delete(ctx context.Context, id, userID int64) error
	MonthlySummary(ctx context.Context, userID int64, yearMonth string) (models.MonthlySummary, error)
	GetCashBalance(ctx context.Context, userID int64) (models.CashBalance, error)
	SetCashBalance(ctx context.Context, userID int64, amount float64) (models.CashBalance, error)
}

// TransactionExtractor turns free-form statement text into transaction
// candidates. The production implementation calls OpenAI; tests use a
// canned extractor.
type TransactionExtractor interface {
	ExtractTransactions(ctx context.Context, text string) (*models.ExtractionResult, error)
}
