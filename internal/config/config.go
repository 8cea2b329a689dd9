// Package config reads server configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port     int
	LogLevel string
	DevMode  bool

	OpenMeteoBaseURL string
	WeatherTimeout   time.Duration

	SessionTTL time.Duration

	// BaseWACC is the discount-rate floor for transition NPVs; the
	// scenario spread is added on top.
	BaseWACC float64
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnvAsInt("PORT", 8000),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		OpenMeteoBaseURL: getEnv("OPEN_METEO_BASE_URL", "https://archive-api.open-meteo.com/v1/archive"),
		WeatherTimeout:   time.Duration(getEnvAsInt("WEATHER_TIMEOUT_SECONDS", 10)) * time.Second,
		SessionTTL:       time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 120)) * time.Minute,
		BaseWACC:         getEnvAsFloat("BASE_WACC", 0.08),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	if c.WeatherTimeout <= 0 {
		return fmt.Errorf("WEATHER_TIMEOUT_SECONDS must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}
	if c.BaseWACC <= 0 || c.BaseWACC >= 1 {
		return fmt.Errorf("BASE_WACC must be in (0, 1), got %f", c.BaseWACC)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
