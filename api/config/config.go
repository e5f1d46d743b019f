package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
// It is loaded once at startup and passed explicitly to the components that need it.
type Config struct {
	StripeSecretKey        string
	StripePriceID          string
	SupabaseURL            string
	SupabaseServiceRoleKey string
	// Optional: when set, bearer tokens are verified locally instead of via GoTrue.
	SupabaseJWTSecret string
	// Optional: when set, profiles are read and written over Postgres instead of PostgREST.
	DatabaseURL string
	// Base used to build redirect URLs when the request carries no Origin header
	DefaultOrigin string
	// Optional: base URL for running remote HTTP integration tests (e.g., https://api.example.com)
	IntegrationBaseURL string
	// Server ports
	HTTPPort string
	GRPCPort string
	LogLevel string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	return FromEnv()
}

// loadDotEnv loads the first .env file found in the current directory or one of its parents.
// Variables already present in the environment win over the file.
func loadDotEnv() error {
	currentDir, _ := os.Getwd()
	for currentDir != "/" && currentDir != "." {
		envPath := filepath.Join(currentDir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("failed to load .env file: %v", err)
			}
			return nil
		}
		// Move up one directory
		currentDir = filepath.Dir(currentDir)
	}
	return nil
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	config := &Config{}

	requiredVars := []struct {
		name     string
		envVar   string
		display  string
		required bool
	}{
		{"StripeSecretKey", "STRIPE_SECRET_KEY", "Stripe Secret Key", true},
		{"StripePriceID", "STRIPE_PRICE_ID", "Stripe Price ID", true},
		{"SupabaseURL", "SUPABASE_URL", "Supabase URL", true},
		{"SupabaseServiceRoleKey", "SUPABASE_SERVICE_ROLE_KEY", "Supabase Service Role Key", true},
		{"SupabaseJWTSecret", "SUPABASE_JWT_SECRET", "Supabase JWT Secret", false},
		{"DatabaseURL", "DATABASE_URL", "Database URL", false},
		{"DefaultOrigin", "DEFAULT_ORIGIN", "Default Origin", false},
		// Optional integration base URL for remote tests
		{"IntegrationBaseURL", "INTEGRATION_BASE_URL", "Integration Base URL", false},
		// Optional server ports
		{"HTTPPort", "PORT", "HTTP Port", false},
		{"GRPCPort", "GRPC_PORT", "gRPC Port", false},
		{"LogLevel", "LOG_LEVEL", "Log Level", false},
	}

	for _, v := range requiredVars {
		value := strings.TrimSpace(os.Getenv(v.envVar))
		if v.required && value == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", v.display)
		}
		configField := reflect.ValueOf(config).Elem().FieldByName(v.name)
		configField.SetString(value)
	}

	// Defaults
	if config.DefaultOrigin == "" {
		config.DefaultOrigin = DefaultOrigin
	}
	config.DefaultOrigin = strings.TrimRight(config.DefaultOrigin, "/")
	config.SupabaseURL = strings.TrimRight(config.SupabaseURL, "/")
	if config.HTTPPort == "" {
		config.HTTPPort = "8080"
	}
	if config.GRPCPort == "" {
		config.GRPCPort = "50051"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	return config, nil
}

// UsesDatabase reports whether profiles should be accessed over a direct Postgres connection.
func (c *Config) UsesDatabase() bool { return c.DatabaseURL != "" }
