package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kitbuilder587/guru-api/internal/domain"
)

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

var (
	ErrMissingAPIKey    = errors.New("API_KEY is required")
	ErrMissingDB        = errors.New("DATABASE_URL is required for the postgres rate limit store")
	ErrMissingRedis     = errors.New("REDIS_ADDR is required for the redis rate limit store or stats")
	ErrInvalidStore     = errors.New("invalid rate limit store")
	ErrInvalidRateLimit = errors.New("rate limit max and window must be positive")
)

type Config struct {
	Server           ServerConfig
	LLM              LLMConfig
	Log              LogConfig
	RateLimit        RateLimitConfig
	Redis            RedisConfig
	Database         DatabaseConfig
	Metrics          MetricsConfig
	AnswerValidation domain.ValidationMode
}

type ServerConfig struct {
	Port       string
	TrustProxy bool
}

type LLMConfig struct {
	APIKey           string
	BaseURL          string
	Model            string
	SystemPromptFile string
}

type LogConfig struct {
	Level string
}

type RateLimitConfig struct {
	Max          int
	Window       time.Duration
	Store        string
	StatsEnabled bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	URL string
}

type MetricsConfig struct {
	Port string
}

// Enabled - нужен ли отдельный listener для /metrics
func (m MetricsConfig) Enabled() bool {
	return m.Port != "" && m.Port != "0"
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:       getEnvOrDefault("PORT", "3000"),
			TrustProxy: getEnvBoolOrDefault("TRUST_PROXY", false),
		},
		LLM: LLMConfig{
			APIKey:           os.Getenv("API_KEY"),
			BaseURL:          getEnvOrDefault("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:            getEnvOrDefault("LLM_MODEL", "llama3-8b-8192"),
			SystemPromptFile: os.Getenv("SYSTEM_PROMPT_FILE"),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		RateLimit: RateLimitConfig{
			Max:          getEnvIntOrDefault("RATE_LIMIT_MAX", 4),
			Window:       time.Duration(getEnvIntOrDefault("RATE_LIMIT_WINDOW_SEC", 60)) * time.Second,
			Store:        strings.ToLower(getEnvOrDefault("RATE_LIMIT_STORE", StoreMemory)),
			StatsEnabled: getEnvBoolOrDefault("RATE_STATS_ENABLED", false),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvIntOrDefault("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Metrics: MetricsConfig{
			Port: getEnvOrDefault("METRICS_PORT", "9090"),
		},
		AnswerValidation: domain.ValidationMode(strings.ToLower(getEnvOrDefault("ANSWER_VALIDATION", string(domain.ValidationOff)))),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		return ErrInvalidRateLimit
	}
	switch c.RateLimit.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.Addr == "" {
			return ErrMissingRedis
		}
	case StorePostgres:
		if c.Database.URL == "" {
			return ErrMissingDB
		}
	default:
		return ErrInvalidStore
	}
	if c.RateLimit.StatsEnabled && c.Redis.Addr == "" {
		return ErrMissingRedis
	}
	if !c.AnswerValidation.IsValid() {
		return domain.ErrInvalidValidation
	}
	return nil
}

// UsesRedis reports whether any component needs a redis connection.
func (c *Config) UsesRedis() bool {
	return c.RateLimit.Store == StoreRedis || c.RateLimit.StatsEnabled
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
