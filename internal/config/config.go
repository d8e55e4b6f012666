package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    `validate:"gte=1,lte=65535"`
	LogLevel    string `validate:"oneof=debug info warn warning error"`
	LogFormat   string `validate:"oneof=json text"`
	Environment string `validate:"oneof=dev staging prod test"`
	ServiceName string `validate:"required"`
	Version     string `validate:"required"`

	// Damage sync tuning
	BatchingEnabled bool
	FlushInterval   time.Duration `validate:"gt=0"`
	SyncRadius      float64       `validate:"gt=0"`
	NotifyCooldown  time.Duration `validate:"gte=0"`

	// Damage calculator
	CacheEnabled  bool
	CacheSize     int     `validate:"gt=0"`
	DefaultDamage float64 `validate:"gte=0"`
	ProfilePath   string  `validate:"required"`

	VerboseLogging bool
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:        getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:       getEnv("LOG_FORMAT", DefaultLogFormat),
		Environment:     getEnv("ENVIRONMENT", DefaultEnvironment),
		ServiceName:     getEnv("SERVICE_NAME", DefaultServiceName),
		Version:         getEnv("VERSION", DefaultVersion),
		ProfilePath:     getEnv("PROFILE_PATH", DefaultProfilePath),
		BatchingEnabled: getEnvBool("BATCHING_ENABLED", DefaultBatchingEnabled),
		CacheEnabled:    getEnvBool("CACHE_ENABLED", DefaultCacheEnabled),
		VerboseLogging:  getEnvBool("VERBOSE_LOGGING", DefaultVerboseLogging),
	}

	port, err := getEnvInt("PORT", DefaultPort)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	cacheSize, err := getEnvInt("CACHE_SIZE", DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_SIZE value: %w", err)
	}
	cfg.CacheSize = cacheSize

	flushMs, err := getEnvInt("FLUSH_INTERVAL_MS", DefaultFlushIntervalMs)
	if err != nil {
		return nil, fmt.Errorf("invalid FLUSH_INTERVAL_MS value: %w", err)
	}
	cfg.FlushInterval = time.Duration(flushMs) * time.Millisecond

	cooldownMs, err := getEnvInt("NOTIFY_COOLDOWN_MS", DefaultNotifyCooldownMs)
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_COOLDOWN_MS value: %w", err)
	}
	cfg.NotifyCooldown = time.Duration(cooldownMs) * time.Millisecond

	radius, err := getEnvFloat("SYNC_RADIUS", DefaultSyncRadius)
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_RADIUS value: %w", err)
	}
	cfg.SyncRadius = radius

	defaultDamage, err := getEnvFloat("DEFAULT_DAMAGE", DefaultDamageValue)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_DAMAGE value: %w", err)
	}
	cfg.DefaultDamage = defaultDamage

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value.
// Unparseable values fall back to the default rather than failing startup.
func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}

// getEnvFloat retrieves a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	return strconv.ParseFloat(value, 64)
}
