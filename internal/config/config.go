package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Default allowed origins for development
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

type Config struct {
	Port              string
	CronSecretToken   string
	BrevoAPIKey       string
	BrevoSenderEmail  string
	BrevoSenderName   string
	FirebaseProjectID string
	DashboardURL      string
	RedisAddr         string
	RunLockTTL        time.Duration
	EmailTimeout      time.Duration
	AllowedOrigins    []string
}

// Load reads configuration from the environment. RedisAddr is optional; when
// empty the process-reminders endpoint runs without the overlap lock.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		CronSecretToken:   os.Getenv("CRON_SECRET_TOKEN"),
		BrevoAPIKey:       os.Getenv("BREVO_API_KEY"),
		BrevoSenderEmail:  getEnv("BREVO_SENDER_EMAIL", "notifications@worktrack.app"),
		BrevoSenderName:   getEnv("BREVO_SENDER_NAME", "Worktrack"),
		FirebaseProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
		DashboardURL:      getEnv("DASHBOARD_URL", "https://worktrack.app/dashboard"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RunLockTTL:        getDuration("RUN_LOCK_TTL", 10*time.Minute),
		EmailTimeout:      getDuration("EMAIL_TIMEOUT", 15*time.Second),
		AllowedOrigins:    allowedOrigins(),
	}

	if cfg.CronSecretToken == "" {
		return nil, fmt.Errorf("CRON_SECRET_TOKEN is required")
	}

	if cfg.BrevoAPIKey == "" {
		return nil, fmt.Errorf("BREVO_API_KEY is required")
	}

	if cfg.FirebaseProjectID == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required")
	}

	return cfg, nil
}

func allowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}

	return d
}
