package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"salesboard/analytics"
)

// Config holds application configuration
type Config struct {
	ServerPort int

	// Database configuration
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// Redis configuration (optional; the report cache degrades to
	// recomputation when Redis is unreachable)
	RedisHost     string
	RedisPassword string
	RedisPort     string

	// Analytics configuration
	Analytics AnalyticsConfig
}

// AnalyticsConfig holds the tunable parameters of the analytics engine.
type AnalyticsConfig struct {
	// DefaultOpenProbability is the close-probability estimate for
	// in-progress deals whose stage label matches no funnel hint.
	DefaultOpenProbability float64

	// RunRateHorizonDays is the horizon of the linear run-rate projection.
	RunRateHorizonDays int

	// ReportCacheTTLMinutes bounds how long memoized KPI snapshots and
	// rollups live in Redis.
	ReportCacheTTLMinutes int

	// Insight rule thresholds.
	Thresholds analytics.Thresholds
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	defaults := analytics.DefaultThresholds()

	return &Config{
		ServerPort: getEnvInt("SERVER_PORT", 8080),

		// Database configuration
		DatabaseHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DatabasePort:     getEnvOrDefault("DB_PORT", "5432"),
		DatabaseName:     getEnvOrDefault("DB_NAME", "salesboard"),
		DatabaseUser:     getEnvOrDefault("DB_USER", "salesboard"),
		DatabasePassword: getEnvOrDefault("DB_PASSWORD", "salesboard123"),

		// Redis configuration
		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		// Analytics configuration
		Analytics: AnalyticsConfig{
			DefaultOpenProbability: getEnvFloat("ANALYTICS_DEFAULT_OPEN_PROBABILITY", analytics.DefaultOpenProbability),
			RunRateHorizonDays:     getEnvInt("ANALYTICS_RUN_RATE_HORIZON_DAYS", 30),
			ReportCacheTTLMinutes:  getEnvInt("ANALYTICS_REPORT_CACHE_TTL_MINUTES", 15),
			Thresholds: analytics.Thresholds{
				PlanAttainmentWarnPct: getEnvFloat("INSIGHT_PLAN_ATTAINMENT_WARN_PCT", defaults.PlanAttainmentWarnPct),
				WinRateWarnPct:        getEnvFloat("INSIGHT_WIN_RATE_WARN_PCT", defaults.WinRateWarnPct),
				TopManagerSharePct:    getEnvFloat("INSIGHT_TOP_MANAGER_SHARE_PCT", defaults.TopManagerSharePct),
				TopClientSharePct:     getEnvFloat("INSIGHT_TOP_CLIENT_SHARE_PCT", defaults.TopClientSharePct),
			},
		},
	}
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvFloat gets environment variable as float64 or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var floatValue float64
	if _, err := fmt.Sscanf(value, "%f", &floatValue); err != nil {
		return defaultValue
	}
	return floatValue
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
