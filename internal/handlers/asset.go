package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"carteira/internal/models"
	"carteira/internal/services"
)

type AssetHandler struct {
	assetService services.AssetService
}

func NewAssetHandler(assetService services.AssetService) *AssetHandler {
	return &AssetHandler{
		assetService: assetService,
	}
}

// HandleAssets handles GET and POST /api/assets
func (h *AssetHandler) HandleAssets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		assets, err := h.assetService.ListAssets(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		json.NewEncoder(w).Encode(assets)

	case http.MethodPost:
		var asset models.Asset
		if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
			http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.assetService.CreateAsset(r.Context(), &asset); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(asset)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleAssetByID handles GET /api/assets/{id}
func (h *AssetHandler) HandleAssetByID(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "Asset ID is required", http.StatusBadRequest)
		return
	}

	asset, err := h.assetService.GetAsset(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(asset)
}
