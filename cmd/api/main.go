package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/atelier-shop/internal/api"
	"github.com/example/atelier-shop/internal/auth"
	"github.com/example/atelier-shop/internal/checkout"
	"github.com/example/atelier-shop/internal/config"
	"github.com/example/atelier-shop/internal/infrastructure/kafka"
	"github.com/example/atelier-shop/internal/infrastructure/store"
	"github.com/example/atelier-shop/internal/inventory"
	"github.com/example/atelier-shop/internal/order"
	"github.com/example/atelier-shop/internal/review"
	"github.com/example/atelier-shop/internal/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] Invalid configuration: %v", err)
	}

	db, err := store.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[API] Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := store.EnsureSchema(db); err != nil {
		log.Fatalf("[API] Failed to ensure schema: %v", err)
	}

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
	})
	defer producer.Close()

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenExpiry)

	catalogStore := store.NewCatalogStore(db)
	cartStore := store.NewCartStore(db)
	inventoryStore := store.NewInventoryStore(db)
	orderStore := store.NewOrderStore(db)
	settingsStore := store.NewSettingsStore(db)
	blogStore := store.NewBlogStore(db)
	userStore := store.NewUserStore(db)
	reviewStore := store.NewReviewStore(db)

	settingsCache := settings.NewCache(settingsStore, cfg.SettingsTTL)
	ledger := inventory.NewLedger(inventoryStore, producer)
	orderService := order.NewService(orderStore, producer)
	reviewService := review.NewService(reviewStore, orderStore)

	currency := settingsCache.Get(context.Background()).Currency
	checkoutService := checkout.NewService(orderService, cfg.CheckoutURL, currency)

	router := api.NewRouter(api.Handlers{
		Auth:    api.NewAuthHandler(userStore, tokens),
		Shop:    api.NewShopHandler(catalogStore, blogStore, settingsCache),
		Cart:    api.NewCartHandler(catalogStore, cartStore, checkoutService),
		Orders:  api.NewOrderHandler(orderService),
		Reviews: api.NewReviewHandler(reviewService, catalogStore, userStore),
		Admin:   api.NewAdminHandler(catalogStore, ledger, orderService, blogStore, reviewService, settingsStore, settingsCache),
		Tokens:  tokens,
	})

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Printf("[API] Listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[API] Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[API] Forced shutdown: %v", err)
	}
	log.Println("[API] Stopped")
}
