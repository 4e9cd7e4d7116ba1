package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Config holds database configuration
type Config struct {
	Server   string
	Port     int
	Database string
	User     string
	Password string
}

// DefaultConfig reads database configuration from environment variables
func DefaultConfig() Config {
	port := 3306
	if p, err := strconv.Atoi(getEnv("DB_PORT", "3306")); err == nil {
		port = p
	}

	return Config{
		Server:   getEnv("DB_SERVER", "127.0.0.1"),
		Port:     port,
		Database: getEnv("DB_NAME", "AuthService"),
		User:     getEnv("DB_USER", "root"),
		Password: getEnv("DB_PASSWORD", ""),
	}
}

// Connect opens a MySQL connection pool and verifies it with a ping.
// The credential store is the durable half of the system: callers are
// expected to treat a failure here as fatal at boot.
func Connect(config Config) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true",
		config.User,
		config.Password,
		config.Server,
		config.Port,
		config.Database,
	)

	pool, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	pool.SetMaxOpenConns(25)
	pool.SetMaxIdleConns(5)
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
