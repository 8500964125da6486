package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"carteira/internal/models"
	"carteira/internal/services"
)

type PositionHandler struct {
	positionService services.PositionService
}

func NewPositionHandler(positionService services.PositionService) *PositionHandler {
	return &PositionHandler{
		positionService: positionService,
	}
}

// HandlePositions handles GET /api/positions
func (h *PositionHandler) HandlePositions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter := &models.PositionFilter{
		PortfolioID: r.URL.Query().Get("portfolio_id"),
		AssetID:     r.URL.Query().Get("asset_id"),
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	positions, err := h.positionService.ListPositions(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(positions)
}

// HandlePositionByID handles GET /api/positions/{id}
func (h *PositionHandler) HandlePositionByID(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "Position ID is required", http.StatusBadRequest)
		return
	}

	position, err := h.positionService.GetPosition(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(position)
}

// HandleRecalculate handles POST /api/positions/recalculate. It rebuilds
// one position from its full transaction history, the operational escape
// hatch the replay-safe fold provides.
func (h *PositionHandler) HandleRecalculate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		PortfolioID string `json:"portfolio_id"`
		AssetID     string `json:"asset_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.PortfolioID == "" || req.AssetID == "" {
		http.Error(w, "portfolio_id and asset_id are required", http.StatusBadRequest)
		return
	}

	position, err := h.positionService.Recalculate(r.Context(), req.PortfolioID, req.AssetID)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(position)
}

// HandlePortfolioSummary handles GET /api/portfolios/{id}/positions/summary
func (h *PositionHandler) HandlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	vars := mux.Vars(r)
	portfolioID := vars["id"]
	if portfolioID == "" {
		http.Error(w, "Portfolio ID is required", http.StatusBadRequest)
		return
	}

	summary, err := h.positionService.GetSummary(r.Context(), portfolioID)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(summary)
}
