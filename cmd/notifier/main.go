package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/atelier-shop/internal/config"
	"github.com/example/atelier-shop/internal/email"
	"github.com/example/atelier-shop/internal/infrastructure/kafka"
	"github.com/example/atelier-shop/internal/infrastructure/store"
	"github.com/example/atelier-shop/internal/notification"
	"github.com/example/atelier-shop/internal/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Notifier] Invalid configuration: %v", err)
	}

	db, err := store.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Notifier] Failed to connect to database: %v", err)
	}
	defer db.Close()

	settingsCache := settings.NewCache(store.NewSettingsStore(db), cfg.SettingsTTL)
	currency := settingsCache.Get(context.Background()).Currency

	emailService := email.NewService(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailFrom)
	handler := notification.NewHandler(emailService, cfg.AlertEmail, currency)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, "shop-notifier")
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("[Notifier] Shutting down...")
		cancel()
	}()

	log.Printf("[Notifier] Consuming from %s", cfg.KafkaTopic)
	if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("[Notifier] Consumer error: %v", err)
	}
	log.Println("[Notifier] Stopped")
}
