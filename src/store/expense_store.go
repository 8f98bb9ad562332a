package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/username/finwise/backend/src/models"
)

// duplicatePrefixRunes is how much of the description participates in
// the duplicate heuristic. Bank descriptions often carry a variable
// tail (reference numbers), so only the leading part is compared.
const duplicatePrefixRunes = 20

// ExpenseStore wraps all expense and cash-balance SQL. The handle is
// injected at construction, never read from a package global.
type ExpenseStore struct {
	db *sql.DB
}

func NewExpenseStore(db *sql.DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

// Insert persists a validated expense and fills in its ID and creation
// timestamp.
func (s *ExpenseStore) Insert(ctx context.Context, e *models.Expense) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, description, amount, type, category, date, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Description, e.Amount, e.Type, e.Category, e.Date, e.Source, now)
	if err != nil {
		return fmt.Errorf("inserting expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading expense id: %w", err)
	}
	e.ID = id
	e.CreatedAt = now
	return nil
}

// FindDuplicate reports whether the user already has an expense on the
// same date with the same amount whose description contains the leading
// part of the candidate's description. Exact-amount, exact-date,
// fuzzy-description: near-identical transactions on the same day (two
// coffees) still import.
func (s *ExpenseStore) FindDuplicate(ctx context.Context, userID int64, date string, amount float64, description string) (bool, error) {
	prefix := description
	if runes := []rune(prefix); len(runes) > duplicatePrefixRunes {
		prefix = string(runes[:duplicatePrefixRunes])
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM expenses
		 WHERE user_id = ? AND date = ? AND amount = ? AND description LIKE ?
		 LIMIT 1`,
		userID, date, amount, "%"+prefix+"%").Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking duplicate expense: %w", err)
	}
	return true, nil
}

// ListByUser returns the user's expenses, newest date first.
func (s *ExpenseStore) ListByUser(ctx context.Context, userID int64) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, description, amount, type, category, date, source, created_at
		 FROM expenses WHERE user_id = ?
		 ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Description, &e.Amount, &e.Type, &e.Category, &e.Date, &e.Source, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// GetByID fetches one expense, scoped to its owner.
func (s *ExpenseStore) GetByID(ctx context.Context, id, userID int64) (*models.Expense, error) {
	var e models.Expense
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, description, amount, type, category, date, source, created_at
		 FROM expenses WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&e.ID, &e.UserID, &e.Description, &e.Amount, &e.Type, &e.Category, &e.Date, &e.Source, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching expense %d: %w", id, err)
	}
	return &e, nil
}

// Update rewrites an expense's mutable fields, scoped to its owner.
func (s *ExpenseStore) Update(ctx context.Context, e *models.Expense) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET description = ?, amount = ?, type = ?, category = ?, date = ?
		 WHERE id = ? AND user_id = ?`,
		e.Description, e.Amount, e.Type, e.Category, e.Date, e.ID, e.UserID)
	if err != nil {
		return fmt.Errorf("updating expense %d: %w", e.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an expense, scoped to its owner.
func (s *ExpenseStore) Delete(ctx context.Context, id, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting expense %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MonthlySummary aggregates one calendar month (yearMonth "2006-01").
func (s *ExpenseStore) MonthlySummary(ctx context.Context, userID int64, yearMonth string) (models.MonthlySummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT type, COALESCE(SUM(amount), 0)
		 FROM expenses
		 WHERE user_id = ? AND date LIKE ?
		 GROUP BY type`, userID, yearMonth+"%")
	if err != nil {
		return models.MonthlySummary{}, fmt.Errorf("summarizing month %s: %w", yearMonth, err)
	}
	defer rows.Close()

	var summary models.MonthlySummary
	for rows.Next() {
		var txType string
		var sum float64
		if err := rows.Scan(&txType, &sum); err != nil {
			return models.MonthlySummary{}, err
		}
		switch txType {
		case models.TypeIncome:
			summary.Income += sum
		case models.TypeFixed:
			summary.Fixed += sum
			summary.Total += sum
		case models.TypeVariable:
			summary.Variable += sum
			summary.Total += sum
		}
	}
	return summary, rows.Err()
}

// GetCashBalance returns the user's stored balance, zero if none is set.
func (s *ExpenseStore) GetCashBalance(ctx context.Context, userID int64) (models.CashBalance, error) {
	balance := models.CashBalance{UserID: userID}
	err := s.db.QueryRowContext(ctx,
		`SELECT amount, updated_at FROM cash_balance WHERE user_id = ?`, userID).
		Scan(&balance.Amount, &balance.UpdatedAt)
	if err == sql.ErrNoRows {
		return balance, nil
	}
	if err != nil {
		return balance, fmt.Errorf("fetching cash balance: %w", err)
	}
	return balance, nil
}

// SetCashBalance upserts the user's balance.
func (s *ExpenseStore) SetCashBalance(ctx context.Context, userID int64, amount float64) (models.CashBalance, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cash_balance (user_id, amount, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET amount = excluded.amount, updated_at = excluded.updated_at`,
		userID, amount, now)
	if err != nil {
		return models.CashBalance{}, fmt.Errorf("saving cash balance: %w", err)
	}
	return models.CashBalance{UserID: userID, Amount: amount, UpdatedAt: now}, nil
}
