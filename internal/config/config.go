package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
	LogDir      string

	APIKey         string
	TrustedProxies []string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	DBMaxConns    int
	DBMaxIdleTime time.Duration
	DBMaxLifetime time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Event system
	EventMaxRetries     int
	EventRetryDelay     time.Duration
	EventDeadLetterPath string

	// Orchestrator
	ChallengeRunInterval time.Duration
	LevelRunInterval     time.Duration
	PayoutRunInterval    time.Duration
	PayoutPeriod         time.Duration
	ReconcileRunInterval time.Duration
	WorkerCount          int
	WorkerQueueSize      int

	// Level subsystem
	ActiveUserWindowDays int
	LadderConfigPath     string
	ActivityCacheTTL     time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		LogDir:      getEnv("LOG_DIR", DefaultLogDir),

		APIKey:         os.Getenv("API_KEY"),
		TrustedProxies: splitAndTrim(getEnv("TRUSTED_PROXIES", "")),

		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "questline"),

		DBMaxConns:    getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxIdleTime: getEnvAsDuration("DB_MAX_IDLE_TIME", DefaultDBMaxIdleTime),
		DBMaxLifetime: getEnvAsDuration("DB_MAX_LIFETIME", DefaultDBMaxLifetime),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		EventMaxRetries:     getEnvAsInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries),
		EventRetryDelay:     getEnvAsDuration("EVENT_RETRY_DELAY", DefaultEventRetryDelay),
		EventDeadLetterPath: getEnv("EVENT_DEADLETTER_PATH", DefaultEventDeadLetterPath),

		ChallengeRunInterval: getEnvAsDuration("CHALLENGE_RUN_INTERVAL", DefaultChallengeRunInterval),
		LevelRunInterval:     getEnvAsDuration("LEVEL_RUN_INTERVAL", DefaultLevelRunInterval),
		PayoutRunInterval:    getEnvAsDuration("PAYOUT_RUN_INTERVAL", DefaultPayoutRunInterval),
		PayoutPeriod:         getEnvAsDuration("PAYOUT_PERIOD", DefaultPayoutPeriod),
		ReconcileRunInterval: getEnvAsDuration("RECONCILE_RUN_INTERVAL", DefaultReconcileRunInterval),
		WorkerCount:          getEnvAsInt("WORKER_COUNT", DefaultWorkerCount),
		WorkerQueueSize:      getEnvAsInt("WORKER_QUEUE_SIZE", DefaultWorkerQueueSize),

		ActiveUserWindowDays: getEnvAsInt("ACTIVE_USER_WINDOW_DAYS", DefaultActiveUserWindowDays),
		LadderConfigPath:     getEnv("LADDER_CONFIG_PATH", DefaultLadderConfigPath),
		ActivityCacheTTL:     getEnvAsDuration("ACTIVITY_CACHE_TTL", DefaultActivityCacheTTL),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if cfg.WorkerCount <= 0 {
		return nil, fmt.Errorf("WORKER_COUNT must be positive, got %d", cfg.WorkerCount)
	}

	return cfg, nil
}

// splitAndTrim parses a comma-separated list, dropping empty entries
func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an integer environment variable or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration retrieves a duration environment variable or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
