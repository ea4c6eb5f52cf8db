package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment string

	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Server struct {
		Port    string
		GinMode string
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}

	Auth struct {
		JWTSecret string
		Issuer    string
	}

	Storage struct {
		Endpoint        string
		AccessKeyID     string
		SecretAccessKey string
		Bucket          string
		Region          string
		UseSSL          bool
		PresignTTL      time.Duration
		PublicBaseURL   string
	}

	Client struct {
		APIURL  string
		Token   string
		Timeout time.Duration
	}

	Log struct {
		Level string
		File  string
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.Environment = getEnv("APP_ENV", "development")

	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "election")
	config.DB.Password = getEnv("DB_PASSWORD", "election_password")
	config.DB.Name = getEnv("DB_NAME", "election_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	config.Auth.JWTSecret = getEnv("JWT_SECRET", "")
	config.Auth.Issuer = getEnv("JWT_ISSUER", "election-portal")

	config.Storage.Endpoint = getEnv("MINIO_ENDPOINT", "")
	config.Storage.AccessKeyID = getEnv("MINIO_ACCESS_KEY", "")
	config.Storage.SecretAccessKey = getEnv("MINIO_SECRET_KEY", "")
	config.Storage.Bucket = getEnv("MINIO_BUCKET", "portraits")
	config.Storage.Region = getEnv("MINIO_REGION", "us-east-1")
	config.Storage.UseSSL = getEnvAsBool("MINIO_USE_SSL", false)
	config.Storage.PresignTTL = getEnvAsDuration("PORTRAIT_URL_TTL", 15*time.Minute)
	config.Storage.PublicBaseURL = getEnv("PORTRAIT_BASE_URL", "")

	config.Client.APIURL = getEnv("BALLOT_API_URL", "http://localhost:8080")
	config.Client.Token = getEnv("BALLOT_TOKEN", "")
	config.Client.Timeout = getEnvAsDuration("BALLOT_TIMEOUT", 10*time.Second)

	config.Log.Level = getEnv("LOG_LEVEL", "info")
	config.Log.File = getEnv("BALLOT_LOG_FILE", "ballot.log")

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// StorageEnabled reports whether portrait object storage is configured
func (c *Config) StorageEnabled() bool {
	return c.Storage.Endpoint != "" && c.Storage.AccessKeyID != "" && c.Storage.SecretAccessKey != ""
}

// AllowedOrigins splits the comma separated CORS origins
func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORS.AllowOrigins)
}

// AllowedMethods splits the comma separated CORS methods
func (c *Config) AllowedMethods() []string {
	return splitList(c.CORS.AllowMethods)
}

// AllowedHeaders splits the comma separated CORS headers
func (c *Config) AllowedHeaders() []string {
	return splitList(c.CORS.AllowHeaders)
}

func splitList(value string) []string {
	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration gets an environment variable as a duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
