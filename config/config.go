package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// OperatorCredential is one operator allowed to publish newsletters.
// Digest is the hex-encoded SHA3-256 of the operator's password.
type OperatorCredential struct {
	Username string
	Digest   string
}

// EmailClientConfig holds configuration for the outbound email gateway.
type EmailClientConfig struct {
	Provider  string // "mailjet", "ses" or "noop"
	BaseURL   string // upstream API base URL for the mailjet provider
	Sender    string
	FromName  string
	APIKey    string
	APISecret string

	SESRegion          string
	SESAccessKeyID     string
	SESSecretAccessKey string
}

// Config holds all configuration for the application
type Config struct {
	Environment string
	Host        string
	Port        string
	BaseURL     string // public base URL used in confirmation links

	StoreProvider string // "memory" or "postgres"
	DBUrl         string

	EmailClient EmailClientConfig
	Operators   []OperatorCredential

	CORSAllowedOrigins []string
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file if not in production
	// We don't return error here because in production .env might not exist
	// and we rely on system environment variables
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:   env,
		Host:          os.Getenv("HOST"),
		Port:          os.Getenv("PORT"),
		BaseURL:       os.Getenv("BASE_URL"),
		StoreProvider: os.Getenv("STORE_PROVIDER"),
		DBUrl:         os.Getenv("DATABASE_URL"),
		EmailClient: EmailClientConfig{
			Provider:           os.Getenv("EMAIL_PROVIDER"),
			BaseURL:            os.Getenv("EMAIL_BASE_URL"),
			Sender:             os.Getenv("EMAIL_SENDER"),
			FromName:           os.Getenv("EMAIL_FROM_NAME"),
			APIKey:             os.Getenv("EMAIL_API_KEY"),
			APISecret:          os.Getenv("EMAIL_API_SECRET"),
			SESRegion:          os.Getenv("SES_REGION"),
			SESAccessKeyID:     os.Getenv("SES_ACCESS_KEY_ID"),
			SESSecretAccessKey: os.Getenv("SES_SECRET_ACCESS_KEY"),
		},
	}

	// Set defaults
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port)
	}
	if cfg.StoreProvider == "" {
		cfg.StoreProvider = "memory"
	}
	if cfg.EmailClient.Provider == "" {
		cfg.EmailClient.Provider = "mailjet"
	}
	if cfg.EmailClient.FromName == "" {
		cfg.EmailClient.FromName = "Newsletter Admin"
	}

	operators, err := parseOperators(os.Getenv("OPERATOR_CREDENTIALS"))
	if err != nil {
		return nil, err
	}
	cfg.Operators = operators

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = strings.Split(origins, ",")
	}

	return cfg, nil
}

// parseOperators parses OPERATOR_CREDENTIALS, a comma-separated list of
// username:sha3_256_hex_digest pairs.
func parseOperators(raw string) ([]OperatorCredential, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []OperatorCredential
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		username, digest, ok := strings.Cut(entry, ":")
		if !ok || username == "" || digest == "" {
			return nil, fmt.Errorf("invalid OPERATOR_CREDENTIALS entry %q, want username:digest", entry)
		}
		out = append(out, OperatorCredential{Username: username, Digest: digest})
	}
	return out, nil
}
