package httpx

import (
	"encoding/json"
	"net/http"

	"lokamart-be/internal/inventory"

	"github.com/go-chi/chi/v5"
)

type InventoryHandler struct {
	Svc inventory.Service
}

func (h *InventoryHandler) Register(r chi.Router) {
	r.Get("/inventory/{productId}", h.getRecords)
	r.Put("/inventory/{productId}", h.upsertRecord)
	r.Delete("/inventory/{productId}", h.deleteRecord)
}

func (h *InventoryHandler) getRecords(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	productID := chi.URLParam(r, "productId")

	if sku := r.URL.Query().Get("sku"); sku != "" {
		rec, err := h.Svc.Get(r.Context(), productID, sku)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"record": rec})
		return
	}

	recs, err := h.Svc.ListByProduct(r.Context(), productID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"records": recs})
}

func (h *InventoryHandler) upsertRecord(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var req struct {
		VariantSKU string `json:"variantSku,omitempty"`
		Quantity   int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	rec, err := h.Svc.Upsert(r.Context(), inventory.Record{
		ProductID:  chi.URLParam(r, "productId"),
		VariantSKU: req.VariantSKU,
		Quantity:   req.Quantity,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"record": rec})
}

func (h *InventoryHandler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	err := h.Svc.Delete(
		r.Context(),
		chi.URLParam(r, "productId"),
		r.URL.Query().Get("sku"),
	)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "record deleted"})
}
