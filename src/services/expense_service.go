package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/finwise/backend/src/logger"
	"github.com/username/finwise/backend/src/models"
	"github.com/username/finwise/backend/src/security/validation"
)

const summaryCacheTTL = 5 * time.Minute

// ExpenseService handles manual expense management and the cash
// balance. Manual entries run through the same sanitizer as imported
// ones; the fixed/variable split the client chooses is restored after
// sanitization, since the trust boundary only distinguishes direction.
type ExpenseService struct {
	store       ExpenseStorer
	reportCache *cache.Cache
}

func NewExpenseService(store ExpenseStorer, reportCache *cache.Cache) *ExpenseService {
	return &ExpenseService{store: store, reportCache: reportCache}
}

func (s *ExpenseService) List(ctx context.Context, userID int64) ([]models.Expense, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *ExpenseService) Create(ctx context.Context, userID int64, candidate models.RawTransactionCandidate) (*models.Expense, error) {
	expense, err := s.sanitizeManual(candidate)
	if err != nil {
		return nil, err
	}
	expense.UserID = userID
	if err := s.store.Insert(ctx, &expense); err != nil {
		return nil, err
	}
	invalidateUserCaches(s.reportCache, userID)
	return &expense, nil
}

func (s *ExpenseService) Update(ctx context.Context, userID, id int64, candidate models.RawTransactionCandidate) (*models.Expense, error) {
	expense, err := s.sanitizeManual(candidate)
	if err != nil {
		return nil, err
	}
	expense.ID = id
	expense.UserID = userID
	if err := s.store.Update(ctx, &expense); err != nil {
		return nil, err
	}
	invalidateUserCaches(s.reportCache, userID)
	return &expense, nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.store.Delete(ctx, id, userID); err != nil {
		return err
	}
	invalidateUserCaches(s.reportCache, userID)
	return nil
}

// sanitizeManual applies the shared trust boundary, then restores the
// client's fixed/variable choice which sanitization collapses into a
// plain expense direction.
func (s *ExpenseService) sanitizeManual(candidate models.RawTransactionCandidate) (models.Expense, error) {
	requestedType := strings.ToLower(strings.TrimSpace(candidate.Type))
	expense, err := validation.SanitizeCandidate(candidate, "manual")
	if err != nil {
		return models.Expense{}, err
	}
	if expense.Type == models.TypeExpense {
		if requestedType == models.TypeFixed {
			expense.Type = models.TypeFixed
		} else {
			expense.Type = models.TypeVariable
		}
	}
	return expense, nil
}

// CurrentMonthSummary aggregates the running month, cached per user
// until the next write.
func (s *ExpenseService) CurrentMonthSummary(ctx context.Context, userID int64) (models.MonthlySummary, error) {
	key := SummaryCacheKey(userID)
	if s.reportCache != nil {
		if cached, found := s.reportCache.Get(key); found {
			if summary, ok := cached.(models.MonthlySummary); ok {
				return summary, nil
			}
		}
	}

	summary, err := s.store.MonthlySummary(ctx, userID, time.Now().UTC().Format("2006-01"))
	if err != nil {
		return models.MonthlySummary{}, err
	}
	if s.reportCache != nil {
		s.reportCache.Set(key, summary, summaryCacheTTL)
	}
	return summary, nil
}

func (s *ExpenseService) GetCashBalance(ctx context.Context, userID int64) (models.CashBalance, error) {
	return s.store.GetCashBalance(ctx, userID)
}

func (s *ExpenseService) SetCashBalance(ctx context.Context, userID int64, amount float64) (models.CashBalance, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return models.CashBalance{}, fmt.Errorf("%w: invalid balance amount", validation.ErrMalformedCandidate)
	}
	balance, err := s.store.SetCashBalance(ctx, userID, math.Round(amount*100)/100)
	if err != nil {
		return models.CashBalance{}, err
	}
	invalidateUserCaches(s.reportCache, userID)
	logger.L.Info("Cash balance updated", "userID", userID)
	return balance, nil
}

// Snapshot assembles the context the advice service needs.
func (s *ExpenseService) Snapshot(ctx context.Context, userID int64) (models.FinancialSnapshot, error) {
	balance, err := s.store.GetCashBalance(ctx, userID)
	if err != nil {
		return models.FinancialSnapshot{}, err
	}
	summary, err := s.CurrentMonthSummary(ctx, userID)
	if err != nil {
		return models.FinancialSnapshot{}, err
	}
	expenses, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return models.FinancialSnapshot{}, err
	}
	if len(expenses) > 5 {
		expenses = expenses[:5]
	}
	return models.FinancialSnapshot{
		CashBalance:     balance.Amount,
		MonthlyExpenses: summary,
		RecentExpenses:  expenses,
	}, nil
}
