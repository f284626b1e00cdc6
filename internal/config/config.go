package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	MongoURI       string
	RedisURI       string
	GeminiAPIKey   string
	GeminiModel    string
	Port           string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL
	Environment    string   // ENV: production, development, etc.
	DataFile       string   // local fallback store path (used when Mongo is not configured)

	// Derived-stats rates. Defaults assume ~20 cigarettes/day.
	CostPerHour  float64
	UnitsPerHour float64
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{getEnv("FRONTEND_URL", "http://localhost:3000")}
	}

	return &Config{
		MongoURI:       getEnv("MONGODB_URI", getEnv("MONGO_URI", "")),
		RedisURI:       getEnv("REDIS_URI", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", getEnv("API_KEY", "")),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: allowedOrigins,
		Environment:    env,
		DataFile:       getEnv("DATA_FILE", "breathe_profiles.json"),
		CostPerHour:    getEnvFloat("COST_PER_HOUR", 0.52),
		UnitsPerHour:   getEnvFloat("UNITS_PER_HOUR", 0.8333),
	}
}

// MongoConfigured reports whether a usable MongoDB URI was provided. Empty and
// placeholder values (e.g. "YOUR_MONGODB_URI" left in a copied .env template)
// both select the local fallback store.
func (c *Config) MongoConfigured() bool {
	uri := strings.TrimSpace(c.MongoURI)
	return uri != "" && !strings.Contains(uri, "YOUR_")
}

// RedisConfigured reports whether Redis is available for sessions and rate limiting.
func (c *Config) RedisConfigured() bool {
	uri := strings.TrimSpace(c.RedisURI)
	return uri != "" && !strings.Contains(uri, "YOUR_")
}

// GeminiConfigured reports whether the text-generation provider can be used.
func (c *Config) GeminiConfigured() bool {
	key := strings.TrimSpace(c.GeminiAPIKey)
	return key != "" && !strings.Contains(key, "YOUR_")
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}
