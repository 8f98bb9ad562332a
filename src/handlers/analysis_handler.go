package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/finwise/backend/src/logger"
	"github.com/username/finwise/backend/src/services"
	"github.com/username/finwise/backend/src/utils"
)

const adviceCacheTTL = 30 * time.Minute

// AnalysisHandler serves the AI endpoints: free-text statement
// extraction followed by import, and financial advice over the user's
// current snapshot.
type AnalysisHandler struct {
	extractor      services.TransactionExtractor
	aiService      *services.AIService
	importService  *services.ImportService
	expenseService *services.ExpenseService
	reportCache    *cache.Cache
}

func NewAnalysisHandler(aiService *services.AIService, importService *services.ImportService, expenseService *services.ExpenseService, reportCache *cache.Cache) *AnalysisHandler {
	return &AnalysisHandler{
		extractor:      aiService,
		aiService:      aiService,
		importService:  importService,
		expenseService: expenseService,
		reportCache:    reportCache,
	}
}

// HandleAnalyzeText extracts transactions from pasted statement text,
// imports them and reports the combined outcome.
func (h *AnalysisHandler) HandleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var requestBody struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(requestBody.Text) == "" {
		utils.SendJSONError(w, "No statement text provided", http.StatusBadRequest)
		return
	}

	extraction, err := h.extractor.ExtractTransactions(r.Context(), requestBody.Text)
	if err != nil {
		if errors.Is(err, services.ErrExtractionUnavailable) {
			utils.SendJSONError(w, "The AI extraction service is currently unavailable", http.StatusBadGateway)
			return
		}
		logger.L.Error("Text analysis failed", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to analyze statement text", http.StatusInternalServerError)
		return
	}

	summary, err := h.importService.ImportTransactions(r.Context(), userID, extraction.Transactions, "ai_text_analysis")
	if err != nil {
		if errors.Is(err, services.ErrBatchTooLarge) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.L.Error("Import of extracted transactions failed", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to import extracted transactions", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]interface{}{
		"success":      summary.Imported,
		"duplicates":   summary.Duplicates,
		"failed":       summary.Failed,
		"total":        summary.Total,
		"bankDetected": extraction.BankDetected,
		"summary":      extraction.Summary,
	})
}

// HandleGetAdvice returns AI financial advice over the user's snapshot.
// Advice without a question is cached per user until the next write.
func (h *AnalysisHandler) HandleGetAdvice(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var requestBody struct {
		Question string `json:"question"`
	}
	if r.Body != nil {
		// A missing or empty body just means "general advice".
		_ = json.NewDecoder(r.Body).Decode(&requestBody)
	}
	question := strings.TrimSpace(requestBody.Question)

	cacheKey := services.AdviceCacheKey(userID)
	if question == "" && h.reportCache != nil {
		if cached, found := h.reportCache.Get(cacheKey); found {
			if advice, ok := cached.(string); ok {
				utils.SendJSON(w, http.StatusOK, map[string]string{"advice": advice})
				return
			}
		}
	}

	snapshot, err := h.expenseService.Snapshot(r.Context(), userID)
	if err != nil {
		logger.L.Error("Failed to assemble financial snapshot", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to load financial data", http.StatusInternalServerError)
		return
	}

	advice, err := h.aiService.GetFinancialAdvice(r.Context(), snapshot, question)
	if err != nil {
		if errors.Is(err, services.ErrExtractionUnavailable) {
			utils.SendJSONError(w, "The AI advice service is currently unavailable", http.StatusBadGateway)
			return
		}
		logger.L.Error("Advice generation failed", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to generate advice", http.StatusInternalServerError)
		return
	}

	if question == "" && h.reportCache != nil {
		h.reportCache.Set(cacheKey, advice, adviceCacheTTL)
	}

	utils.SendJSON(w, http.StatusOK, map[string]string{"advice": advice})
}
