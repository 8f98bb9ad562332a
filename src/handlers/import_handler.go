package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/username/finwise/backend/src/logger"
	"github.com/username/finwise/backend/src/models"
	"github.com/username/finwise/backend/src/services"
	"github.com/username/finwise/backend/src/utils"
)

type ImportHandler struct {
	importService *services.ImportService
}

func NewImportHandler(service *services.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: service,
	}
}

// HandleImportTransactions accepts a batch of transaction candidates
// (typically from a client-side statement parse) and imports them with
// deduplication. The response counts always cover every candidate.
func (h *ImportHandler) HandleImportTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var requestBody struct {
		Transactions []models.RawTransactionCandidate `json:"transactions"`
		BankType     string                           `json:"bankType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(requestBody.Transactions) == 0 {
		utils.SendJSONError(w, "No transactions provided", http.StatusBadRequest)
		return
	}

	source := "bank_import"
	if bankType := strings.TrimSpace(requestBody.BankType); bankType != "" {
		source = "bank_import_" + strings.ToLower(bankType)
	}

	summary, err := h.importService.ImportTransactions(r.Context(), userID, requestBody.Transactions, source)
	if err != nil {
		if errors.Is(err, services.ErrBatchTooLarge) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.L.Error("Import batch failed", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to import transactions", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, http.StatusOK, summary)
}
