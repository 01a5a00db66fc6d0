package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"lokamart-be/internal/order"
	"lokamart-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type OrderHandler struct {
	Svc order.Service
}

func (h *OrderHandler) Register(r chi.Router) {
	r.Post("/orders", h.placeOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/orders/{id}/status", h.getOrderStatus)
	r.Put("/orders/{id}", h.updateOrderStatus)
}

func (h *OrderHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	if !requireAuth(w, r) {
		return
	}

	var input order.PlaceOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	o, err := h.Svc.PlaceOrder(r.Context(), input)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"order": o})
}

func (h *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	if !requireAuth(w, r) {
		return
	}

	var status *order.Status
	if s := r.URL.Query().Get("status"); s != "" {
		parsed, err := order.ParseStatus(s)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		status = &parsed
	}

	limit := queryInt32(r, "limit")
	page := queryInt32(r, "page")

	orders, err := h.Svc.GetOrders(r.Context(), status, limit, page)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	if !requireAuth(w, r) {
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), w, order.ErrOrderNotFound)
		return
	}

	o, err := h.Svc.GetOrder(r.Context(), orderID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"order": o})
}

func (h *OrderHandler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	if !requireAuth(w, r) {
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), w, order.ErrOrderNotFound)
		return
	}

	status, err := h.Svc.GetOrderStatus(r.Context(), orderID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

func (h *OrderHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	if !requireAuth(w, r) {
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), w, order.ErrOrderNotFound)
		return
	}

	var body struct {
		Status     string  `json:"status"`
		PaymentRef *string `json:"paymentRef,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	status, err := order.ParseStatus(body.Status)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	o, effects, err := h.Svc.TransitionStatus(r.Context(), orderID, status, body.PaymentRef)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	resp := map[string]any{"order": o}
	if effects != nil {
		resp["inventoryEffects"] = effects
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireAuth(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return false
	}
	return true
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !requireAuth(w, r) {
		return false
	}
	if !utils.IsAdmin(r.Context()) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return false
	}
	return true
}

func queryInt32(r *http.Request, key string) int32 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return 0
	}
	return int32(n)
}
