package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion        string
	DynamoDBTable    string
	DynamoDBEndpoint string // non-empty for DynamoDB Local
	EventBusName     string

	// Lambda configuration
	IsLambda bool

	// Authentication
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	// Logging and features
	LogLevel   string
	EnableCORS bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AWSRegion:        getEnv("AWS_REGION", "ap-northeast-1"),
		DynamoDBTable:    getEnv("DYNAMODB_TABLE", "MugenRecoTable"),
		DynamoDBEndpoint: getEnv("DYNAMODB_ENDPOINT", ""),
		EventBusName:     getEnv("EVENT_BUS_NAME", ""),

		IsLambda: getEnv("AWS_LAMBDA_FUNCTION_NAME", "") != "",

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "mugenreco-backend"),
		TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 60)) * time.Minute,

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		EnableCORS: getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required")
		}
	}
	if c.JWTSecret == "" {
		// development fallback so a bare checkout starts
		c.JWTSecret = "local-dev-secret"
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
