package configs

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "changeme"

type Config struct {
	Env           string
	Port          string
	DBDriver      string
	DBSource      string
	MongoDatabase string
	JWTSecret     string
	JWTTTL        time.Duration
	RedisAddr     string
	CacheTTL      time.Duration
	KafkaBrokers  []string
	KafkaTopic    string
	AdminEmail    string
	AdminPassword string
	SeedMeals     bool
	CORSOrigins   []string
}

// LoadConfig reads .env when present and falls back to defaults for anything
// unset. A missing .env is normal outside local development.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("cannot load .env: %v", err)
	}

	return &Config{
		Env:           getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "8000"),
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		DBSource:      getEnv("DB_SOURCE", "foodorder.db"),
		MongoDatabase: getEnv("MONGO_DATABASE", "foodorder"),
		JWTSecret:     getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTTTL:        getDuration("JWT_EXPIRES_IN", 30*24*time.Hour),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		CacheTTL:      getDuration("CACHE_TTL", 5*time.Minute),
		KafkaBrokers:  splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "orders.created"),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		SeedMeals:     getBool("SEED_MEALS", true),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "")),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects settings the service must not run with.
func (c *Config) Validate() error {
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
