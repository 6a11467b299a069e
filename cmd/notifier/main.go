package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/vendor-ops/internal/config"
	"github.com/example/vendor-ops/internal/email"
	"github.com/example/vendor-ops/internal/infrastructure/kafka"
	"github.com/example/vendor-ops/internal/notification"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Notifier] %v", err)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatal("[Notifier] KAFKA_BROKERS is required")
	}

	log.Println("[Notifier] ========================================")
	log.Println("[Notifier] Customer Notification Service")
	log.Println("[Notifier] ========================================")
	log.Printf("[Notifier] Kafka: %v", cfg.Kafka.Brokers)
	log.Printf("[Notifier] Topic: %s", cfg.Kafka.Topic)
	log.Printf("[Notifier] Consumer Group: %s", cfg.Kafka.GroupID)
	log.Printf("[Notifier] SMTP: %s:%d", cfg.SMTP.Host, cfg.SMTP.Port)

	emailSvc := email.NewService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	handler := notification.NewHandler(emailSvc)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID)
	defer consumer.Close()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("[Notifier] Shutting down...")
		cancel()
	}()

	log.Println("[Notifier] Starting to consume events...")
	if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && ctx.Err() == nil {
		log.Fatalf("[Notifier] Consumer error: %v", err)
	}
}
