package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultTokenSecret = "defaultSecret"

// Config holds application configuration
type Config struct {
	Port        string
	CorsOrigins string

	DBDriver   string // postgres, mysql, sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBDSN      string // overrides the DSN built from the fields above

	TokenSecret string
	TokenTTL    time.Duration

	StripeSecretKey string

	SendGridAPIKey string
	EmailSender    string

	KafkaBrokers []string
	KafkaTopic   string

	ReconcileSchedule    string
	ReconcileMaxAttempts int
}

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "5000"),
		CorsOrigins: getEnv("CORS_ORIGINS", "*"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "yogaDb"),
		DBDSN:      getEnv("DB_DSN", ""),

		TokenSecret: getEnv("ACCESS_TOKEN_SECRET", defaultTokenSecret),
		TokenTTL:    getEnvDuration("TOKEN_TTL", time.Hour),

		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "noreply@tranquility-oasis.yoga"),

		KafkaBrokers: getEnvList("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "enrollments"),

		ReconcileSchedule:    getEnv("RECONCILE_SCHEDULE", "*/5 * * * *"),
		ReconcileMaxAttempts: getEnvInt("RECONCILE_MAX_ATTEMPTS", 5),
	}

	if cfg.TokenSecret == defaultTokenSecret {
		log.Println("Warning: Using default ACCESS_TOKEN_SECRET. Update it in your environment.")
	}
	if cfg.StripeSecretKey == "" {
		log.Println("Warning: STRIPE_SECRET_KEY is empty, payment intents will fail.")
	}

	return cfg
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}

	switch c.DBDriver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	case "sqlite":
		return c.DBName + ".db"
	default:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
