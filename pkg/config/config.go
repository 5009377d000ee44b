package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Upstream terminal bridge
	Bridge BridgeConfig

	// Redis (shared rate limit for bridge calls)
	Redis RedisConfig

	// Dashboard behaviour
	Dashboard DashboardConfig

	// Inbound API throttling
	API APIConfig

	// Monitor (scheduled digest)
	Monitor MonitorConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// BridgeConfig holds the terminal bridge connection settings
type BridgeConfig struct {
	BaseURL string
	Timeout time.Duration
	Limit   int // bonds per fetch
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool

	// Bridge calls allowed per window across all processes
	BridgeLimit  int
	BridgeWindow time.Duration
}

// DashboardConfig selects classification and normalization behaviour
type DashboardConfig struct {
	ColorPolicy    string // simple, horizon_aware
	LegacyDefaults bool   // compat: unmapped country -> Africa, unmapped sector -> sovereign
	PresetsFile    string // optional YAML of saved filter presets
}

// APIConfig holds inbound request throttling
type APIConfig struct {
	RateLimit float64 // requests per second
	RateBurst int
}

// MonitorConfig holds the changes digest schedule
type MonitorConfig struct {
	Schedule string // cron expression with seconds
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Bridge: BridgeConfig{
			BaseURL: strings.TrimRight(getEnv("BRIDGE_BASE_URL", "http://localhost:5000"), "/"),
			Timeout: getEnvAsDuration("BRIDGE_TIMEOUT", "30s"),
			Limit:   getEnvAsInt("BRIDGE_LIMIT", 3000),
		},

		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			Enabled:      getEnvAsBool("REDIS_ENABLED", false),
			BridgeLimit:  getEnvAsInt("REDIS_BRIDGE_LIMIT", 30),
			BridgeWindow: getEnvAsDuration("REDIS_BRIDGE_WINDOW", "1m"),
		},

		Dashboard: DashboardConfig{
			ColorPolicy:    getEnv("COLOR_POLICY", "simple"),
			LegacyDefaults: getEnvAsBool("NORMALIZER_LEGACY_DEFAULTS", false),
			PresetsFile:    getEnv("PRESETS_FILE", ""),
		},

		API: APIConfig{
			RateLimit: getEnvAsFloat("API_RATE_LIMIT", 20),
			RateBurst: getEnvAsInt("API_RATE_BURST", 40),
		},

		Monitor: MonitorConfig{
			Schedule: getEnv("MONITOR_SCHEDULE", "0 */15 * * * *"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Bridge.BaseURL == "" {
		return fmt.Errorf("BRIDGE_BASE_URL is required")
	}

	if c.Bridge.Timeout <= 0 {
		return fmt.Errorf("BRIDGE_TIMEOUT must be positive")
	}

	if c.Bridge.Limit <= 0 {
		return fmt.Errorf("BRIDGE_LIMIT must be positive")
	}

	switch strings.ToLower(c.Dashboard.ColorPolicy) {
	case "simple", "horizon_aware", "horizon-aware":
	default:
		return fmt.Errorf("COLOR_POLICY must be one of: simple, horizon_aware")
	}

	if c.API.RateLimit <= 0 || c.API.RateBurst <= 0 {
		return fmt.Errorf("API_RATE_LIMIT and API_RATE_BURST must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
