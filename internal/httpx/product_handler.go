package httpx

import (
	"encoding/json"
	"net/http"

	"lokamart-be/internal/product"
	"lokamart-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	Svc product.Service
}

func (h *ProductHandler) Register(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Post("/products", h.createProduct)
	r.Put("/products/{id}", h.updateProduct)
	r.Delete("/products/{id}", h.deleteProduct)
}

type newProductReq struct {
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	Price       int64           `json:"price"`
	Stock       *int            `json:"stock,omitempty"`
	Variants    []newVariantReq `json:"variants,omitempty"`
}

type newVariantReq struct {
	SKU   string `json:"sku"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Stock *int   `json:"stock,omitempty"`
}

func (h *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	opts := product.ListOptions{
		Search:     r.URL.Query().Get("search"),
		OnlyActive: !utils.IsAdmin(r.Context()),
		Limit:      queryInt32(r, "limit"),
	}
	if page := queryInt32(r, "page"); page > 1 {
		if opts.Limit <= 0 {
			opts.Limit = 20
		}
		opts.Offset = (page - 1) * opts.Limit
	}

	products, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"product": p})
}

func (h *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var req newProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	input := product.NewProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	for _, v := range req.Variants {
		input.Variants = append(input.Variants, product.NewVariantInput{
			SKU:   v.SKU,
			Name:  v.Name,
			Price: v.Price,
			Stock: v.Stock,
		})
	}

	p, err := h.Svc.Create(r.Context(), input)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"product": p})
}

func (h *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var input product.UpdateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	p, err := h.Svc.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"product": p})
}

func (h *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	if err := h.Svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
