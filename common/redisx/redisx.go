package redisx

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis configuration for the ephemeral OTP store
type Config struct {
	Host     string
	Port     string
	Password string
}

// DefaultConfig reads Redis configuration from environment variables
func DefaultConfig() Config {
	return Config{
		Host:     getEnv("REDIS_HOST", "127.0.0.1"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
	}
}

// Connect creates a Redis client and pings it. The client is returned even
// when the ping fails so the process can start degraded: registration and
// login keep working, only the reset flow errors until Redis comes back.
func Connect(config Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Host + ":" + config.Port,
		Password: config.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return client, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
