package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port                    string  `yaml:"port"`
	LogLevel                string  `yaml:"logLevel"`
	DatabaseURL             string  `yaml:"databaseURL"`
	RedisAddr               string  `yaml:"redisAddr"`
	RedisPassword           string  `yaml:"redisPassword"`
	SessionStrategy         string  `yaml:"sessionStrategy"`
	JWTSecret               string  `yaml:"jwtSecret"`
	SessionTTL              string  `yaml:"sessionTTL"`
	// Pointers so an explicit zero is distinct from "not configured".
	LoanPeriodDays *int     `yaml:"loanPeriodDays"`
	FinePerDay     *float64 `yaml:"finePerDay"`
	LoginRateLimitPerMinute int     `yaml:"loginRateLimitPerMinute"`
	TrustForwardedFor       bool    `yaml:"trustForwardedFor"`
	SeedDemoData            bool    `yaml:"seedDemoData"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	// Override with environment variables
	if v := os.Getenv("LIBRARYDESK_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("LIBRARYDESK_SESSION_STRATEGY"); v != "" {
		cfg.SessionStrategy = v
	}
	if v := os.Getenv("LIBRARYDESK_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("LIBRARYDESK_SESSION_TTL"); v != "" {
		cfg.SessionTTL = v
	}
	if v := os.Getenv("LIBRARYDESK_LOAN_PERIOD_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LoanPeriodDays = &n
		}
	}
	if v := os.Getenv("LIBRARYDESK_FINE_PER_DAY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FinePerDay = &f
		}
	}
	if v := os.Getenv("LIBRARYDESK_LOGIN_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LoginRateLimitPerMinute = n
		}
	}
	if v := os.Getenv("LIBRARYDESK_TRUST_FORWARDED_FOR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.TrustForwardedFor = b
		}
	}
	if v := os.Getenv("LIBRARYDESK_SEED_DEMO_DATA"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SeedDemoData = b
		}
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml)")
	}
	switch cfg.SessionStrategy {
	case "", "memory":
	case "redis":
		if cfg.RedisAddr == "" {
			return errors.New("config: redisAddr is required for redis session strategy")
		}
	case "jwt":
		if cfg.JWTSecret == "" {
			return errors.New("config: jwtSecret is required for jwt session strategy (set LIBRARYDESK_JWT_SECRET)")
		}
	default:
		return fmt.Errorf("config: unknown session strategy %q", cfg.SessionStrategy)
	}
	if cfg.LoanPeriodDays != nil && *cfg.LoanPeriodDays < 0 {
		return errors.New("config: loanPeriodDays must be >= 0")
	}
	if cfg.FinePerDay != nil && *cfg.FinePerDay < 0 {
		return errors.New("config: finePerDay must be >= 0")
	}
	if cfg.LoginRateLimitPerMinute < 0 {
		return errors.New("config: loginRateLimitPerMinute must be >= 0")
	}
	return nil
}

// ParseSessionTTL parses optional session TTL duration string.
func ParseSessionTTL(ttlStr string) (time.Duration, error) {
	if ttlStr == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(ttlStr)
	if err != nil {
		return 0, fmt.Errorf("invalid sessionTTL duration: %w", err)
	}
	return dur, nil
}
