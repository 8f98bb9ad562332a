package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/patrickmn/go-cache"
	"github.com/username/finwise/backend/src/logger"
	"github.com/username/finwise/backend/src/models"
	"github.com/username/finwise/backend/src/security/validation"
)

// ErrBatchTooLarge rejects import batches above the configured ceiling.
var ErrBatchTooLarge = errors.New("import batch exceeds the allowed size")

// ImportService runs candidate batches through the sanitize → dedup →
// insert sequence. Candidates are processed strictly in order, each one
// checked against everything already stored, so a duplicate pair inside
// one batch yields one import and one duplicate.
type ImportService struct {
	store        ExpenseStorer
	reportCache  *cache.Cache
	maxBatchSize int
}

func NewImportService(store ExpenseStorer, reportCache *cache.Cache, maxBatchSize int) *ImportService {
	return &ImportService{
		store:        store,
		reportCache:  reportCache,
		maxBatchSize: maxBatchSize,
	}
}

// ImportTransactions imports one batch for one user. Per-candidate
// failures (malformed fields, storage errors) move the failed counter
// and never abort the batch; the returned counts always satisfy
// imported + duplicates + failed == total. The returned error is
// reserved for batch-level rejections.
func (s *ImportService) ImportTransactions(ctx context.Context, userID int64, candidates []models.RawTransactionCandidate, source string) (models.ImportSummary, error) {
	summary := models.ImportSummary{Total: len(candidates)}

	if s.maxBatchSize > 0 && len(candidates) > s.maxBatchSize {
		return summary, fmt.Errorf("%w: %d transactions (limit %d)", ErrBatchTooLarge, len(candidates), s.maxBatchSize)
	}

	for _, candidate := range candidates {
		expense, err := validation.SanitizeCandidate(candidate, source)
		if err != nil {
			summary.Failed++
			logger.L.Debug("Rejecting malformed transaction candidate", "userID", userID, "error", err)
			continue
		}
		expense.UserID = userID
		if expense.Type == models.TypeExpense {
			expense.Type = models.TypeVariable
		}

		duplicate, err := s.store.FindDuplicate(ctx, userID, expense.Date, expense.Amount, expense.Description)
		if err != nil {
			summary.Failed++
			logger.L.Error("Duplicate check failed during import", "userID", userID, "error", err)
			continue
		}
		if duplicate {
			summary.Duplicates++
			continue
		}

		if err := s.store.Insert(ctx, &expense); err != nil {
			summary.Failed++
			logger.L.Error("Failed to store imported expense", "userID", userID, "error", err)
			continue
		}
		summary.Imported++
	}

	if summary.Imported > 0 {
		invalidateUserCaches(s.reportCache, userID)
	}

	logger.L.Info("Import batch processed",
		"userID", userID,
		"source", source,
		"imported", summary.Imported,
		"duplicates", summary.Duplicates,
		"failed", summary.Failed,
		"total", summary.Total)
	return summary, nil
}

func SummaryCacheKey(userID int64) string {
	return fmt.Sprintf("monthly_summary:%d", userID)
}

func AdviceCacheKey(userID int64) string {
	return fmt.Sprintf("ai_advice:%d", userID)
}

// invalidateUserCaches drops the user's cached summary and advice after
// any write that changes their expenses.
func invalidateUserCaches(c *cache.Cache, userID int64) {
	if c == nil {
		return
	}
	c.Delete(SummaryCacheKey(userID))
	c.Delete(AdviceCacheKey(userID))
}
