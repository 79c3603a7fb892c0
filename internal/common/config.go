package common

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	HTTPPort    int
	MetricsPort int
	Environment string

	DatabaseURL string

	// Transactional email provider (Resend-style JSON API).
	EmailEndpoint     string
	EmailAPIKey       string
	SenderAddress     string
	BusinessRecipient string
	OperatorRecipient string

	// Shared secret required by the scheduled monitor endpoint in production.
	CronSecret string

	OTLPEndpoint string
	ServiceName  string
}

func LoadConfig(service string) (*Config, error) {
	cfg := &Config{ServiceName: service}

	httpPort, err := getEnvInt("HTTP_PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.HTTPPort = httpPort

	metricsPort, err := getEnvInt("METRICS_PORT", httpPort+1000)
	if err != nil {
		return nil, err
	}
	cfg.MetricsPort = metricsPort

	cfg.Environment = getEnv("APP_ENV", EnvDevelopment)
	if cfg.Environment != EnvDevelopment && cfg.Environment != EnvProduction {
		return nil, fmt.Errorf("invalid APP_ENV %q: must be %s or %s", cfg.Environment, EnvDevelopment, EnvProduction)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.EmailEndpoint = getEnv("EMAIL_API_ENDPOINT", "https://api.resend.com")
	cfg.EmailAPIKey = os.Getenv("EMAIL_API_KEY")
	cfg.SenderAddress = getEnv("EMAIL_FROM", "AMP Vending <noreply@ampvendingmachines.com>")
	cfg.BusinessRecipient = getEnv("CONTACT_RECIPIENT", "ampdesignandconsulting@gmail.com")
	cfg.OperatorRecipient = getEnv("ALERT_RECIPIENT", cfg.BusinessRecipient)

	cfg.CronSecret = os.Getenv("CRON_SECRET")
	cfg.OTLPEndpoint = os.Getenv("OTLP_ENDPOINT")

	return cfg, nil
}

// IsProduction reports whether the service runs against live external
// collaborators (email provider, operator alerting).
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		return parsed, nil
	}
	return fallback, nil
}
