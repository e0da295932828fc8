package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	DocStore  DocStoreConfig
	Redis     RedisConfig
	Cache     CacheConfig
	JWT       JWTConfig
	Email     EmailConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Feed      FeedConfig
}

type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	TLSCertFile     string
	TLSKeyFile      string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	DSN      string
	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	AutoMigrate     bool
}

// Document store drivers.
const (
	DocStorePostgres = "postgres"
	DocStoreMongo    = "mongo"
	DocStoreMemory   = "memory"
)

type DocStoreConfig struct {
	Driver         string
	MongoURI       string
	MongoDatabase  string
	ConnectTimeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// Pool and timeout settings
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
}

// CacheConfig controls the query result cache.
type CacheConfig struct {
	Enabled   bool
	Namespace string
	TTL       time.Duration
	OpTimeout time.Duration
}

type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
	Issuer         string
}

type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	CompanyName    string
	BaseURL        string
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

type RateLimitConfig struct {
	DefaultRequestsPerMinute int
	BurstMultiplier          float64
	Window                   time.Duration
	KeyPrefix                string
}

type FeedConfig struct {
	Title       string
	Description string
	Author      string
	Size        int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			TLSCertFile:     getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:      getEnv("TLS_KEY_FILE", ""),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "bookstore"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			AutoMigrate:     getBoolEnv("DB_AUTO_MIGRATE", true),
		},
		DocStore: DocStoreConfig{
			Driver:         strings.ToLower(getEnv("DOCSTORE_DRIVER", DocStorePostgres)),
			MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDatabase:  getEnv("MONGO_DATABASE", "bookstore"),
			ConnectTimeout: getDurationEnv("DOCSTORE_CONNECT_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getDurationEnv("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:  getDurationEnv("REDIS_IDLE_TIMEOUT", 5*time.Minute),
		},
		Cache: CacheConfig{
			Enabled:   getBoolEnv("CACHE_ENABLED", true),
			Namespace: getEnv("CACHE_NAMESPACE", "bookstore"),
			TTL:       getDurationEnv("CACHE_TTL", 10*time.Minute),
			OpTimeout: getDurationEnv("CACHE_OP_TIMEOUT", 500*time.Millisecond),
		},
		JWT: JWTConfig{
			Secret:         getEnvRequired("JWT_SECRET"),
			AccessTokenTTL: getDurationEnv("JWT_ACCESS_TTL", time.Hour),
			Issuer:         getEnv("JWT_ISSUER", "bookstore"),
		},
		Email: EmailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromEmail:      getEnv("FROM_EMAIL", "noreply@example.com"),
			FromName:       getEnv("FROM_NAME", "Knight Frank"),
			CompanyName:    getEnv("COMPANY_NAME", "Knight Frank"),
			BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		RateLimit: RateLimitConfig{
			DefaultRequestsPerMinute: getIntEnv("RATE_LIMIT_RPM", 60),
			BurstMultiplier:          getFloatEnv("RATE_LIMIT_BURST", 1.0),
			Window:                   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
			KeyPrefix:                getEnv("RATE_LIMIT_KEY_PREFIX", "ratelimit:ip"),
		},
		Feed: FeedConfig{
			Title:       getEnv("FEED_TITLE", "Knight Frank Bookstore"),
			Description: getEnv("FEED_DESCRIPTION", "Most recently updated book lists"),
			Author:      getEnv("FEED_AUTHOR", "Knight Frank"),
			Size:        getIntEnv("FEED_SIZE", 10),
		},
	}

	// FlushAll scans <namespace>:* on a Redis shared with the rate limiter.
	if strings.TrimSpace(cfg.Cache.Namespace) == "" || strings.ContainsAny(cfg.Cache.Namespace, "*?[]\\") {
		return nil, fmt.Errorf("invalid CACHE_NAMESPACE %q", cfg.Cache.Namespace)
	}

	switch cfg.DocStore.Driver {
	case DocStorePostgres, DocStoreMongo, DocStoreMemory:
	default:
		return nil, fmt.Errorf("unknown DOCSTORE_DRIVER %q", cfg.DocStore.Driver)
	}

	// Build database DSN
	cfg.Database.DSN = fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("Required environment variable %s is not set", key))
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
