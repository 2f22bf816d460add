package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Port     string
	DBConn   string
	LogLevel string

	// Optional Redis-backed rate limiting, enabled when RedisAddr is set.
	RedisAddr        string
	RateLimit        int
	RateLimitSeconds int

	// Central-bank key-rate integration.
	CBRURL     string
	BankMargin float64

	// Outstanding-loans report; email delivery requires SMTP settings.
	ReportCron   string
	ReportEmail  string
	SenderEmail  string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DBConn:           getEnv("DB_CONN", "host=localhost port=5432 user=loans password=loans dbname=loans sslmode=disable"),
		LogLevel:         getEnv("LOG_LEVEL", "INFO"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RateLimit:        getEnvInt("RATE_LIMIT", 60),
		RateLimitSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		CBRURL:           getEnv("CBR_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),
		BankMargin:       getEnvFloat("BANK_MARGIN", 5.0),
		ReportCron:       getEnv("REPORT_CRON", "0 8 * * *"),
		ReportEmail:      getEnv("REPORT_EMAIL", ""),
		SenderEmail:      getEnv("SENDER_EMAIL", ""),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.RateLimit <= 0 || cfg.RateLimitSeconds <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT and RATE_LIMIT_WINDOW_SECONDS must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}
