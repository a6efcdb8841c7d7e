package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	Port                    string
	Origin                  string
	Environment             string
	RepositoryDriver        string // "mysql" or "memory"
	ManagerEmail            string
	ExpirationCheckInterval time.Duration
	Database                DatabaseConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "appointments"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	checkIntervalMinutes, err := strconv.Atoi(getEnv("EXPIRATION_CHECK_INTERVAL_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPIRATION_CHECK_INTERVAL_MINUTES: %w", err)
	}

	return &Config{
		Port:                    getEnv("PORT", "3001"),
		Origin:                  getEnv("ORIGIN", "http://localhost:4200"),
		Environment:             getEnv("APP_ENV", "development"),
		RepositoryDriver:        getEnv("REPOSITORY_DRIVER", "mysql"),
		ManagerEmail:            getEnv("MANAGER_EMAIL", "manager@example.com"),
		ExpirationCheckInterval: time.Duration(checkIntervalMinutes) * time.Minute,
		Database:                dbConfig,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
