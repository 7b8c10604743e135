package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Harshitk-cp/homesense/internal/llm"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Load reads the .env file specified by HOMESENSE_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("HOMESENSE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	return getenv("LOG_LEVEL", "info")
}

// NewLogger builds a production zap logger at LogLevel.
func NewLogger() (*zap.Logger, error) {
	return NewLoggerAt(LogLevel())
}

// NewLoggerAt builds a production zap logger at the named level.
func NewLoggerAt(name string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(name))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

// LLMProvider returns the configured LLM provider.
// Defaults to "spark" if not set.
// Valid values: spark, qianfan, ark, deepseek, openai, anthropic, mock
func LLMProvider() string {
	return getenv("LLM_PROVIDER", llm.ProviderSpark)
}

// LLMTimeout bounds a single fallback call. Defaults to 30s.
func LLMTimeout() time.Duration {
	return getDuration("LLM_TIMEOUT", 30*time.Second)
}

// LLMConfig gathers the provider credentials from the environment.
func LLMConfig() llm.Config {
	return llm.Config{
		Provider:         LLMProvider(),
		Timeout:          LLMTimeout(),
		SparkAppID:       os.Getenv("SPARK_APP_ID"),
		SparkAPIKey:      os.Getenv("SPARK_API_KEY"),
		SparkAPISecret:   os.Getenv("SPARK_API_SECRET"),
		QianfanAPIKey:    os.Getenv("QIANFAN_API_KEY"),
		QianfanSecretKey: os.Getenv("QIANFAN_SECRET_KEY"),
		ArkAPIKey:        os.Getenv("ARK_API_KEY"),
		ArkModel:         os.Getenv("ARK_MODEL"),
		DeepSeekAPIKey:   os.Getenv("DS_API_KEY"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
	}
}

// RulesPath returns an optional YAML file overriding the built-in rule tables.
func RulesPath() string {
	return os.Getenv("RULES_PATH")
}

// HistorySize is the dialog history capacity and the scene window. Defaults to 3.
func HistorySize() int {
	n, err := strconv.Atoi(os.Getenv("HISTORY_SIZE"))
	if err != nil || n <= 0 {
		return 3
	}
	return n
}

// Location returns the time zone used to resolve the recommendation context.
// An unset or unknown TIMEZONE yields the local zone.
func Location() *time.Location {
	name := os.Getenv("TIMEZONE")
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

// ProfileStore returns the profile backend: file or postgres. Defaults to file.
func ProfileStore() string {
	return getenv("PROFILE_STORE", "file")
}

// ProfileDir is the directory holding <id>.json profiles for the file backend.
func ProfileDir() string {
	return getenv("PROFILE_DIR", ".")
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// SessionStore returns the session backend: memory or redis. Defaults to memory.
func SessionStore() string {
	return getenv("SESSION_STORE", "memory")
}

func RedisURL() string {
	return os.Getenv("REDIS_URL")
}

// SessionTTL is how long an idle session survives in redis. Defaults to 30m.
func SessionTTL() time.Duration {
	return getDuration("SESSION_TTL", 30*time.Minute)
}

// APIKey is the optional bearer key guarding the /v1 routes.
func APIKey() string {
	return os.Getenv("API_KEY")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 20 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 20
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 10 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 10
	}
	return burst
}
