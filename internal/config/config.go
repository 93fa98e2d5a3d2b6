package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/namsral/flag"
	"github.com/rs/zerolog/log"
)

// EnvPrefix prefixes the environment variable behind every flag,
// e.g. -judge-url is read from CODEPAD_JUDGE_URL.
const EnvPrefix = "CODEPAD"

// Session backends.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	ServerPort      string
	ShutdownTimeout time.Duration

	// Execution service
	JudgeURL         string
	JudgeAPIKey      string
	JudgeHost        string
	ExecutionTimeout time.Duration

	// Storage service
	StorageURL     string
	StorageTimeout time.Duration

	// Sessions
	SessionBackend string
	SessionTTL     time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	// Rate limiting of form actions
	RateLimitRPS float64

	// Logging
	LogLevel string
	LogFile  string
}

// LoadEnv loads a .env file into the process environment when one exists.
func LoadEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil {
		log.Debug().Err(err).Msg("no .env file found, using system environment variables")
		return err
	}
	return nil
}

// Load parses flags from args, falling back to CODEPAD_* environment
// variables and then to defaults.
func Load(name string, args []string) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSetWithEnvPrefix(name, EnvPrefix, flag.ContinueOnError)

	fs.StringVar(&cfg.ServerPort, "port", "8080", "HTTP listen port")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 30*time.Second, "graceful shutdown timeout")

	fs.StringVar(&cfg.JudgeURL, "judge-url", "", "Judge0 submissions endpoint")
	fs.StringVar(&cfg.JudgeAPIKey, "judge-api-key", "", "RapidAPI key for Judge0")
	fs.StringVar(&cfg.JudgeHost, "judge-host", "", "RapidAPI host for Judge0")
	fs.DurationVar(&cfg.ExecutionTimeout, "execution-timeout", 30*time.Second, "execution request timeout, 0 for none")

	fs.StringVar(&cfg.StorageURL, "storage-url", "", "submission storage service base URL")
	fs.DurationVar(&cfg.StorageTimeout, "storage-timeout", 15*time.Second, "storage request timeout, 0 for none")

	fs.StringVar(&cfg.SessionBackend, "session-backend", SessionMemory, "session store: memory or redis")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 24*time.Hour, "idle lifetime of a session")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", "localhost:6379", "redis address for the redis session store")
	fs.StringVar(&cfg.RedisPassword, "redis-password", "", "redis password")
	fs.IntVar(&cfg.RedisDB, "redis-db", 0, "redis database number")

	fs.Float64Var(&cfg.RateLimitRPS, "rate-limit-rps", 2, "form actions per second allowed per session")

	fs.StringVar(&cfg.LogLevel, "log-level", "info", "zerolog level")
	fs.StringVar(&cfg.LogFile, "log-file", "", "optional rotating log file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JudgeURL == "" {
		return fmt.Errorf("judge-url (%s_JUDGE_URL) is required", EnvPrefix)
	}
	if c.StorageURL == "" {
		return fmt.Errorf("storage-url (%s_STORAGE_URL) is required", EnvPrefix)
	}
	if c.ServerPort == "" {
		return fmt.Errorf("port is required")
	}
	if c.SessionBackend != SessionMemory && c.SessionBackend != SessionRedis {
		return fmt.Errorf("session-backend must be %q or %q, got %q", SessionMemory, SessionRedis, c.SessionBackend)
	}
	if c.SessionBackend == SessionRedis && c.RedisAddr == "" {
		return fmt.Errorf("redis-addr is required for the redis session backend")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session-ttl must be greater than 0")
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("rate-limit-rps must be greater than 0")
	}
	if c.ExecutionTimeout < 0 || c.StorageTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}
