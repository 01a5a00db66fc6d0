package main

import (
	"context"
	"log"
	"net/http"

	"lokamart-be/internal/cache"
	"lokamart-be/internal/cart"
	"lokamart-be/internal/config"
	"lokamart-be/internal/db"
	"lokamart-be/internal/events"
	"lokamart-be/internal/httpx"
	"lokamart-be/internal/inventory"
	"lokamart-be/internal/logger"
	"lokamart-be/internal/order"
	"lokamart-be/internal/product"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	invRepo := inventory.NewRepository(database)
	invSvc := inventory.NewService(invRepo)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo, invRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, invRepo)

	var statusCache order.StatusCache
	if cfg.RedisAddr != "" {
		c := cache.New(cfg.RedisAddr)
		defer c.Close()
		statusCache = c
	}

	var sink order.EventSink
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, 256)
		producer.Start(context.Background())
		defer func() {
			producer.Close()
			producer.WaitClosed()
		}()
		sink = producer
	}

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, productRepo, invRepo, statusCache, sink, cfg.ServiceName)

	router := httpx.NewRouter([]byte(cfg.JWTSecret), httpx.Handlers{
		Orders:    &httpx.OrderHandler{Svc: orderSvc},
		Products:  &httpx.ProductHandler{Svc: productSvc},
		Carts:     &httpx.CartHandler{Svc: cartSvc},
		Inventory: &httpx.InventoryHandler{Svc: invSvc},
	})

	log.Printf("🚀 API server running at http://localhost:%s/", cfg.AppPort)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, router))
}
