// Package config provides environment configuration for the API server.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	natsclient "github.com/capitalize-ai/gemini-chat/internal/nats"
	"github.com/capitalize-ai/gemini-chat/internal/storage"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	Environment        string

	// Storage settings
	StorageBackend string
	StorageFile    string
	SQLitePath     string
	PostgresURL    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisPrefix    string
	NATSBucket     string

	// NATS settings
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string

	// JWT settings
	JWTSecret     string
	JWTExpiration time.Duration
	JWTIssuer     string

	// Assistant reply settings
	ReplyMinDelay time.Duration
	ReplyMaxDelay time.Duration
	ReplyTarget   string

	// UI defaults
	DefaultDarkMode bool

	// Streaming
	HeartbeatInterval time.Duration

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables. A .env file in the
// working directory is read first if present; real environment variables
// take precedence over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 0),
		Environment:        getEnv("ENVIRONMENT", "development"),

		// Storage
		StorageBackend: getEnv("STORAGE_BACKEND", "file"),
		StorageFile:    getEnv("STORAGE_FILE", "data/gemini-chat.json"),
		SQLitePath:     getEnv("SQLITE_PATH", "data/gemini-chat.db"),
		PostgresURL:    getEnv("POSTGRES_URL", ""),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getIntEnv("REDIS_DB", 0),
		RedisPrefix:    getEnv("REDIS_PREFIX", "gemini-chat:"),
		NATSBucket:     getEnv("NATS_BUCKET", "GEMINI_CHAT"),

		// NATS
		NATSURL:      getEnv("NATS_URL", "nats://localhost:4222"),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),

		// JWT
		JWTSecret:     getEnv("JWT_SECRET", "development-secret-change-in-production"),
		JWTExpiration: getDurationEnv("JWT_EXPIRATION", 24*time.Hour),
		JWTIssuer:     getEnv("JWT_ISSUER", "gemini-chat"),

		// Replies
		ReplyMinDelay: getDurationEnv("REPLY_MIN_DELAY", time.Second),
		ReplyMaxDelay: getDurationEnv("REPLY_MAX_DELAY", 3*time.Second),
		ReplyTarget:   getEnv("REPLY_TARGET", "scheduled"),

		// UI
		DefaultDarkMode: getBoolEnv("DEFAULT_DARK_MODE", false),

		// Streaming
		HeartbeatInterval: getDurationEnv("SSE_HEARTBEAT_INTERVAL", 30*time.Second),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Storage returns the storage backend settings.
func (c *Config) Storage() storage.Config {
	return storage.Config{
		Backend:     c.StorageBackend,
		FilePath:    c.StorageFile,
		SQLitePath:  c.SQLitePath,
		PostgresURL: c.PostgresURL,
		Redis: storage.RedisConfig{
			Address:  c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   c.RedisPrefix,
		},
		NATS: natsclient.Config{
			URL:      c.NATSURL,
			CAFile:   c.NATSCAFile,
			CertFile: c.NATSCertFile,
			KeyFile:  c.NATSKeyFile,
			Token:    c.NATSToken,
		},
		NATSBucket: c.NATSBucket,
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
		if i, err := strconv.Atoi(value); err == nil {
			return i
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
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
