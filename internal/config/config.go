package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string

	// Background loop intervals
	SLAPollInterval    time.Duration
	AllocRetryInterval time.Duration
	SnapshotInterval   time.Duration

	// Contact compliance window (local hours, [start, end))
	ContactStartHour int
	ContactEndHour   int

	// Allocation noise seed; 0 selects a time-based seed
	NoiseSeed uint64

	// WebSocket timeouts
	WSReadTimeout  time.Duration
	WSWriteTimeout time.Duration
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	slaPoll, err := strconv.Atoi(getEnv("SLA_POLL_INTERVAL", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid SLA_POLL_INTERVAL: %w", err)
	}
	config.SLAPollInterval = time.Duration(slaPoll) * time.Second

	retryInterval, err := strconv.Atoi(getEnv("ALLOC_RETRY_INTERVAL", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid ALLOC_RETRY_INTERVAL: %w", err)
	}
	config.AllocRetryInterval = time.Duration(retryInterval) * time.Second

	snapshotInterval, err := strconv.Atoi(getEnv("SNAPSHOT_INTERVAL", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_INTERVAL: %w", err)
	}
	config.SnapshotInterval = time.Duration(snapshotInterval) * time.Second

	config.ContactStartHour, err = strconv.Atoi(getEnv("CONTACT_START_HOUR", "9"))
	if err != nil {
		return nil, fmt.Errorf("invalid CONTACT_START_HOUR: %w", err)
	}
	config.ContactEndHour, err = strconv.Atoi(getEnv("CONTACT_END_HOUR", "18"))
	if err != nil {
		return nil, fmt.Errorf("invalid CONTACT_END_HOUR: %w", err)
	}
	if config.ContactStartHour < 0 || config.ContactEndHour > 24 || config.ContactStartHour >= config.ContactEndHour {
		return nil, fmt.Errorf("invalid contact window %d-%d", config.ContactStartHour, config.ContactEndHour)
	}

	seed, err := strconv.ParseUint(getEnv("NOISE_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid NOISE_SEED: %w", err)
	}
	config.NoiseSeed = seed

	// Parse WebSocket timeouts
	wsReadTimeout, err := strconv.Atoi(getEnv("WS_READ_TIMEOUT", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_READ_TIMEOUT: %w", err)
	}
	config.WSReadTimeout = time.Duration(wsReadTimeout) * time.Second

	wsWriteTimeout, err := strconv.Atoi(getEnv("WS_WRITE_TIMEOUT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_WRITE_TIMEOUT: %w", err)
	}
	config.WSWriteTimeout = time.Duration(wsWriteTimeout) * time.Second

	// Calculate WebSocket constants
	config.PongWait = config.WSReadTimeout
	config.PingPeriod = (config.PongWait * 9) / 10 // Must be less than pongWait
	config.WriteWait = config.WSWriteTimeout
	config.MaxMessageSize = 512

	// Trim spaces from allowed origins
	for i, origin := range config.AllowedOrigins {
		config.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	return config, nil
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
