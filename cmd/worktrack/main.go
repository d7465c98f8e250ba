package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/worktrack-dev/worktrack/internal/config"
	"github.com/worktrack-dev/worktrack/internal/handlers"
	"github.com/worktrack-dev/worktrack/internal/lock"
	"github.com/worktrack-dev/worktrack/internal/mailer"
	"github.com/worktrack-dev/worktrack/internal/reminders"
	"github.com/worktrack-dev/worktrack/internal/router"
	"github.com/worktrack-dev/worktrack/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	st, err := store.New(ctx, cfg.FirebaseProjectID)

	if err != nil {
		log.Fatalf("Failed to connect to record store: %v", err)
	}
	defer st.Close()

	sender := mailer.NewBrevo(mailer.Config{
		APIKey:      cfg.BrevoAPIKey,
		SenderEmail: cfg.BrevoSenderEmail,
		SenderName:  cfg.BrevoSenderName,
		Timeout:     cfg.EmailTimeout,
	})

	var runLock *lock.RunLock

	if cfg.RedisAddr != "" {
		runLock = lock.New(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), cfg.RunLockTTL)
		log.Printf("Run lock enabled via redis at %s", cfg.RedisAddr)
	} else {
		log.Println("REDIS_ADDR not set, reminder runs are not guarded against overlap")
	}

	engine := reminders.New(st, sender, cfg.DashboardURL)

	r := router.NewRouter(cfg.CronSecretToken, cfg.AllowedOrigins, handlers.NewReminderHandler(engine, runLock), handlers.NewEmailHandler(sender))

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
