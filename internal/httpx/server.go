package httpx

import (
	"net/http"
	"time"

	"lokamart-be/internal/logger"
	"lokamart-be/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Orders    *OrderHandler
	Products  *ProductHandler
	Carts     *CartHandler
	Inventory *InventoryHandler
}

func NewRouter(jwtSecret []byte, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.AuthMiddleware(jwtSecret))
	r.Use(middleware.RateLimitMiddleware)
	r.Use(chimw.Timeout(15 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	h.Orders.Register(r)
	h.Products.Register(r)
	h.Carts.Register(r)
	h.Inventory.Register(r)

	return r
}
