package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/username/finwise/backend/src/logger"
	"github.com/username/finwise/backend/src/models"
	"github.com/username/finwise/backend/src/security/validation"
	"github.com/username/finwise/backend/src/services"
	"github.com/username/finwise/backend/src/utils"
)

type ExpenseHandler struct {
	expenseService *services.ExpenseService
}

func NewExpenseHandler(service *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: service,
	}
}

func (h *ExpenseHandler) HandleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	expenses, err := h.expenseService.List(r.Context(), userID)
	if err != nil {
		logger.L.Error("Failed to list expenses", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to retrieve expenses", http.StatusInternalServerError)
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}

	w.Header().Set("Cache-Control", "no-cache, private")
	if etag, err := utils.GenerateETag(expenses); err == nil && etag != "" {
		quotedETag := fmt.Sprintf("%q", etag)
		w.Header().Set("ETag", quotedETag)
		for _, clientETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(clientETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	utils.SendJSON(w, http.StatusOK, expenses)
}

func (h *ExpenseHandler) HandleCreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var candidate models.RawTransactionCandidate
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	expense, err := h.expenseService.Create(r.Context(), userID, candidate)
	if err != nil {
		if errors.Is(err, validation.ErrMalformedCandidate) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.L.Error("Failed to create expense", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to create expense", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusCreated, expense)
}

func (h *ExpenseHandler) HandleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid expense id", http.StatusBadRequest)
		return
	}

	var candidate models.RawTransactionCandidate
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	expense, err := h.expenseService.Update(r.Context(), userID, id, candidate)
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrMalformedCandidate):
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, sql.ErrNoRows):
			utils.SendJSONError(w, "Expense not found", http.StatusNotFound)
		default:
			logger.L.Error("Failed to update expense", "userID", userID, "expenseID", id, "error", err)
			utils.SendJSONError(w, "Failed to update expense", http.StatusInternalServerError)
		}
		return
	}
	utils.SendJSON(w, http.StatusOK, expense)
}

func (h *ExpenseHandler) HandleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid expense id", http.StatusBadRequest)
		return
	}

	if err := h.expenseService.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.SendJSONError(w, "Expense not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to delete expense", "userID", userID, "expenseID", id, "error", err)
		utils.SendJSONError(w, "Failed to delete expense", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ExpenseHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	summary, err := h.expenseService.CurrentMonthSummary(r.Context(), userID)
	if err != nil {
		logger.L.Error("Failed to compute monthly summary", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to compute monthly summary", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, summary)
}

func (h *ExpenseHandler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	balance, err := h.expenseService.GetCashBalance(r.Context(), userID)
	if err != nil {
		logger.L.Error("Failed to fetch cash balance", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to retrieve cash balance", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, balance)
}

func (h *ExpenseHandler) HandleSetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var requestBody struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	balance, err := h.expenseService.SetCashBalance(r.Context(), userID, requestBody.Amount)
	if err != nil {
		if errors.Is(err, validation.ErrMalformedCandidate) {
			utils.SendJSONError(w, "Invalid balance amount", http.StatusBadRequest)
			return
		}
		logger.L.Error("Failed to set cash balance", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to update cash balance", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, balance)
}
