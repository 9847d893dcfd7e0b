package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Port        string
	MetricsPort string
	Database    DatabaseConfig
	RedisAddr   string
	KafkaBroker string
	Backend     BackendConfig
	Rotation    RotationConfig
	Query       QueryConfig
	Location    *time.Location
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

// Enabled reports whether a database host was configured at all.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

type BackendConfig struct {
	BaseURL       string
	ServiceSecret string
	Timeout       time.Duration
}

type RotationConfig struct {
	Pacing            time.Duration
	SettleDelay       time.Duration
	Cron              string
	LockTTL           time.Duration
	RunOnStartup      bool
	DirectoryCacheTTL time.Duration
}

type QueryConfig struct {
	Debounce       time.Duration
	CacheTTL       time.Duration
	ServerFiltered bool
	VersionPoll    time.Duration
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		zap.L().Debug(".env not found, using process environment")
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg := &Config{
		Port:        getEnv("PORT", "3000"),
		MetricsPort: os.Getenv("METRICS_PORT"),
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		Backend: BackendConfig{
			BaseURL:       strings.TrimRight(os.Getenv("BACKEND_BASE_URL"), "/"),
			ServiceSecret: os.Getenv("BACKEND_SERVICE_SECRET"),
			Timeout:       getDuration("BACKEND_TIMEOUT", 15*time.Second),
		},
		Rotation: RotationConfig{
			Pacing:            getDuration("ROTATION_PACING", 500*time.Millisecond),
			SettleDelay:       getDuration("ROTATION_SETTLE_DELAY", 2*time.Second),
			Cron:              strings.TrimSpace(os.Getenv("ROTATION_CRON")),
			LockTTL:           getDuration("ROTATION_LOCK_TTL", 30*time.Minute),
			RunOnStartup:      getBool("ROTATION_RUN_ON_STARTUP", true),
			DirectoryCacheTTL: getDuration("DIRECTORY_CACHE_TTL", time.Minute),
		},
		Query: QueryConfig{
			Debounce:       getDuration("QUERY_DEBOUNCE", 300*time.Millisecond),
			CacheTTL:       getDuration("QUERY_CACHE_TTL", 30*time.Second),
			ServerFiltered: getBool("BACKEND_SERVER_FILTERING", true),
			VersionPoll:    getDuration("QUERY_VERSION_POLL", 5*time.Second),
		},
		Location: loc,
	}

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("BACKEND_BASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration accepts Go durations ("500ms") or plain milliseconds ("500").
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	zap.L().Warn("invalid duration, using default", zap.String("key", key), zap.String("value", raw))
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return v
}
