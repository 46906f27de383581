// Package config loads all runtime configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	Sca    ScaConfig
	Rails  RailsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RedisConfig holds Redis configuration. An empty Addr means the in-memory
// stores are used instead.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ScaConfig holds the SCA policy knobs.
type ScaConfig struct {
	// ThresholdMinor is the amount (minor units) above which SCA is required.
	ThresholdMinor int64
	// RequirementExpression overrides the default requirement policy when set.
	RequirementExpression string
	DefaultMethod         string
	CodeTTL               time.Duration
	BiometricTTL          time.Duration
	MaxAttempts           int
	BiometricMaxAttempts  int
	EnabledBiometrics     []string
}

// RailsConfig holds per-rail enable flags and provider call timeouts.
type RailsConfig struct {
	Enabled  map[string]bool
	Timeouts map[string]time.Duration
}

var railNames = []string{"sepa", "swift", "ach", "ukpay", "eurosystem", "cards", "book"}

// Load loads configuration from environment variables.
func Load() *Config {
	rails := RailsConfig{
		Enabled:  make(map[string]bool, len(railNames)),
		Timeouts: make(map[string]time.Duration, len(railNames)),
	}
	for _, name := range railNames {
		upper := strings.ToUpper(name)
		rails.Enabled[name] = getBoolEnv("RAIL_"+upper+"_ENABLED", true)
		rails.Timeouts[name] = getDurationEnv("RAIL_"+upper+"_TIMEOUT", 30*time.Second)
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Sca: ScaConfig{
			ThresholdMinor:        getInt64Env("SCA_THRESHOLD_MINOR", 50000),
			RequirementExpression: getEnv("SCA_REQUIREMENT_EXPRESSION", ""),
			DefaultMethod:         getEnv("SCA_DEFAULT_METHOD", "SMS"),
			CodeTTL:               getDurationEnv("SCA_CODE_TTL", 15*time.Minute),
			BiometricTTL:          getDurationEnv("SCA_BIOMETRIC_TTL", 5*time.Minute),
			MaxAttempts:           getIntEnv("SCA_MAX_ATTEMPTS", 3),
			BiometricMaxAttempts:  getIntEnv("SCA_BIOMETRIC_MAX_ATTEMPTS", 1),
			EnabledBiometrics:     getListEnv("SCA_ENABLED_BIOMETRICS", nil),
		},
		Rails: rails,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	return defaultValue
}
