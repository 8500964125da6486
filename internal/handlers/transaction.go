package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"carteira/internal/models"
	"carteira/internal/services"
)

type TransactionHandler struct {
	transactionService services.TransactionService
}

func NewTransactionHandler(transactionService services.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// HandleRecordTransaction handles POST /api/transactions.
// The response body is the recalculated position, not the transaction: the
// event itself is immutable and echoes nothing the caller did not send.
func (h *TransactionHandler) HandleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var tx models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	position, err := h.transactionService.RecordTransaction(r.Context(), &tx)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(position)
}

// HandleTransactionByID handles GET /api/transactions/{id}
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "Transaction ID is required", http.StatusBadRequest)
		return
	}

	tx, err := h.transactionService.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(tx)
}

// HandleListTransactions handles GET /api/transactions?portfolio_id=&asset_id=
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	portfolioID := r.URL.Query().Get("portfolio_id")
	assetID := r.URL.Query().Get("asset_id")
	if portfolioID == "" || assetID == "" {
		http.Error(w, "portfolio_id and asset_id query parameters are required", http.StatusBadRequest)
		return
	}

	transactions, err := h.transactionService.ListTransactions(r.Context(), portfolioID, assetID)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(transactions)
}
