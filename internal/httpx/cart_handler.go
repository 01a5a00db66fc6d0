package httpx

import (
	"encoding/json"
	"net/http"

	"lokamart-be/internal/cart"
	"lokamart-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	Svc cart.Service
}

func (h *CartHandler) Register(r chi.Router) {
	r.Get("/cart", h.getCart)
	r.Post("/cart", h.addItem)
	r.Put("/cart", h.updateItem)
	r.Delete("/cart/{productId}", h.removeItem)
}

type cartItemReq struct {
	ProductID  string `json:"productId"`
	VariantSKU string `json:"variantSku,omitempty"`
	Quantity   int    `json:"quantity"`
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	if !requireAuth(w, r) {
		return
	}
	userID, _ := utils.GetUserIDFromContext(r.Context())

	items, err := h.Svc.GetCart(r.Context(), userID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	if !requireAuth(w, r) {
		return
	}
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req cartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	items, err := h.Svc.AddToCart(r.Context(), cart.AddItemParams{
		UserID:     userID,
		ProductID:  req.ProductID,
		VariantSKU: req.VariantSKU,
		Quantity:   req.Quantity,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *CartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	if !requireAuth(w, r) {
		return
	}
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req cartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	err := h.Svc.UpdateQuantity(r.Context(), cart.UpdateItemParams{
		UserID:     userID,
		ProductID:  req.ProductID,
		VariantSKU: req.VariantSKU,
		Quantity:   req.Quantity,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "cart updated"})
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	if !requireAuth(w, r) {
		return
	}
	userID, _ := utils.GetUserIDFromContext(r.Context())

	err := h.Svc.RemoveFromCart(
		r.Context(),
		userID,
		chi.URLParam(r, "productId"),
		r.URL.Query().Get("sku"),
	)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "item removed"})
}
