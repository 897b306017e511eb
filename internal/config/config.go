package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	LogLevel                string
	LengthWarningMultiplier float64
	MaxReportedWarnings     int
	CheckPlaceholders       bool
	WorkerCount             int
	DatabaseURL             string
	HistoryBatchSize        int
	Neo4jURI                string
	Neo4jUser               string
	Neo4jPassword           string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LengthWarningMultiplier: getEnvFloat("LENGTH_WARNING_MULTIPLIER", 1.0),
		MaxReportedWarnings:     getEnvInt("MAX_REPORTED_WARNINGS", 10),
		CheckPlaceholders:       getEnvBool("CHECK_PLACEHOLDERS", true),
		WorkerCount:             getEnvInt("WORKER_COUNT", 8),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		HistoryBatchSize:        getEnvInt("HISTORY_BATCH_SIZE", 500),
		Neo4jURI:                getEnv("NEO4J_URI", ""),
		Neo4jUser:               getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:           getEnv("NEO4J_PASSWORD", "password"),
	}
}

// HistoryEnabled reports whether merges should be recorded in PostgreSQL.
func (c *Config) HistoryEnabled() bool { return c.DatabaseURL != "" }

// GraphEnabled reports whether a Neo4j endpoint is configured.
func (c *Config) GraphEnabled() bool { return c.Neo4jURI != "" }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid number, using default")
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
