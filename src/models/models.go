package models

import "time"

// Transaction directions produced by the extraction pipeline.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Storage-level expense types. Imported non-income transactions are
// stored as variable spending; "fixed" only ever comes from manual entry.
const (
	TypeFixed    = "fixed"
	TypeVariable = "variable"
)

// DefaultCategory is the sentinel used when no categorization rule matches.
const DefaultCategory = "other"

// MaxDescriptionLength bounds stored descriptions (in runes).
const MaxDescriptionLength = 100

// RawTransactionCandidate is an untrusted transaction-shaped object from
// any extraction source (CSV decoder or AI extraction). Fields may be
// missing, malformed, or adversarial; nothing here is persisted until it
// has passed through validation.SanitizeCandidate.
type RawTransactionCandidate struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	// Amount may arrive as a JSON number or a string; decoders set a
	// float64, the sanitizer handles the rest.
	Amount   any    `json:"amount"`
	Type     string `json:"type"`
	Category string `json:"category,omitempty"`
}

// Expense is the validated, storage-ready representation of one
// financial movement, owned by exactly one user.
type Expense struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"` // income, fixed or variable
	Category    string    `json:"category"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
}

// ImportSummary reports the outcome of one import batch. The counts
// always satisfy Imported + Duplicates + Failed == Total.
type ImportSummary struct {
	Imported   int `json:"success"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
	Total      int `json:"total"`
}

// UploadResult is the response for a CSV statement upload.
type UploadResult struct {
	ImportSummary
	BankFormat string `json:"bankType"`
}

// ExtractionResult is what the AI extraction boundary yields after
// defensive re-parsing of the model output.
type ExtractionResult struct {
	Transactions []RawTransactionCandidate `json:"transactions"`
	BankDetected string                    `json:"bankDetected"`
	Summary      string                    `json:"summary"`
}

// CashBalance is the user's current cash position.
type CashBalance struct {
	UserID    int64     `json:"user_id"`
	Amount    float64   `json:"amount"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MonthlySummary aggregates the current month's expenses.
type MonthlySummary struct {
	Total    float64 `json:"total"`
	Fixed    float64 `json:"fixed"`
	Variable float64 `json:"variable"`
	Income   float64 `json:"income"`
}

// FinancialSnapshot is the context handed to the advice service.
type FinancialSnapshot struct {
	CashBalance     float64        `json:"cash_balance"`
	MonthlyExpenses MonthlySummary `json:"monthly_expenses"`
	RecentExpenses  []Expense      `json:"recent_expenses"`
}
