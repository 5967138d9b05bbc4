package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverBolt     = "bolt"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DBUrl         string
	JWTSecret     string
	AllowedOrigin string
	// Persistence
	StoreDriver   string // "postgres" or "bolt"
	BoltPath      string
	DBAutoMigrate bool
	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// Cache
	CacheFreightTTL time.Duration
	CacheZonesTTL   time.Duration
	// Rate Limiting
	RateLimitRPS   float64
	RateLimitBurst int
	// Freight Defaults
	FreightLocalCity              string
	FreightCurrency               string
	FreightThresholdLocal         string
	FreightThresholdNational      string
	FreightThresholdInternational string
	ShutdownTimeout               time.Duration
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: Try loading .env (standard local dev)
		// Missing .env is fine in docker/prod where system env vars are used.
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBUrl:         getEnv("DB_DSN", ""),
		JWTSecret:     getEnv("JWT_SECRET", "default_secret_CHANGE_ME"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		BoltPath:      getEnv("BOLT_PATH", "freight.db"),
		DBAutoMigrate: getBoolEnv("DB_AUTO_MIGRATE", false),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 20),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 2),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		// Cache defaults: 5m freight config snapshot, 1h zone catalog
		CacheFreightTTL: getDurationEnv("CACHE_FREIGHT_TTL", 5*time.Minute),
		CacheZonesTTL:   getDurationEnv("CACHE_ZONES_TTL", time.Hour),

		// 50 req/s, burst 100
		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),

		FreightLocalCity:              getEnv("FREIGHT_LOCAL_CITY", "Tauranga"),
		FreightCurrency:               getEnv("FREIGHT_CURRENCY", "NZD"),
		FreightThresholdLocal:         getEnv("FREIGHT_THRESHOLD_LOCAL", "100"),
		FreightThresholdNational:      getEnv("FREIGHT_THRESHOLD_NATIONAL", "200"),
		FreightThresholdInternational: getEnv("FREIGHT_THRESHOLD_INTERNATIONAL", "500"),

		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 5*time.Second),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DBUrl == "" {
			log.Fatal("CRITICAL: DB_DSN environment variable is required when STORE_DRIVER=postgres")
		}
	case StoreDriverBolt:
		if c.BoltPath == "" {
			log.Fatal("CRITICAL: BOLT_PATH is required when STORE_DRIVER=bolt")
		}
	default:
		log.Fatalf("CRITICAL: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default JWT secret. Setting up for failure in production.")
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Invalid bool for %s, using fallback", key)
	}
	return fallback
}
