package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPPort         string        `yaml:"http_port"`
	CoffeeMakerURL   string        `yaml:"coffeemaker_url"`
	UpstreamTimeout  time.Duration `yaml:"upstream_timeout"`
	BreakerThreshold int           `yaml:"breaker_threshold"`
	BreakerCooldown  time.Duration `yaml:"breaker_cooldown"`
	RedisAddr        string        `yaml:"redis_addr"`
	RateLimit        int           `yaml:"rate_limit"`
	RateWindow       time.Duration `yaml:"rate_window"`
	JWTSecret        string        `yaml:"jwt_secret"`
	StaticDir        string        `yaml:"static_dir"`
	CORSOrigins      []string      `yaml:"cors_origins"`
}

func defaults() *Config {
	return &Config{
		HTTPPort:         "8080",
		CoffeeMakerURL:   "http://localhost:8090",
		UpstreamTimeout:  5 * time.Second,
		BreakerThreshold: 5,
		BreakerCooldown:  10 * time.Second,
		RateLimit:        30,
		RateWindow:       60 * time.Second,
		StaticDir:        "./static",
		CORSOrigins:      []string{"*"},
	}
}

// NewConfig builds the configuration from defaults, then the YAML file named
// by COFFEE_BFF_CONFIG (if any), then environment variables.
func NewConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("COFFEE_BFF_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.HTTPPort = getEnv("HTTP_PORT", cfg.HTTPPort)
	cfg.CoffeeMakerURL = strings.TrimRight(getEnv("COFFEEMAKER_URL", cfg.CoffeeMakerURL), "/")
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.StaticDir = getEnv("STATIC_DIR", cfg.StaticDir)
	cfg.UpstreamTimeout = getDuration("UPSTREAM_TIMEOUT", cfg.UpstreamTimeout)
	cfg.BreakerCooldown = getDuration("BREAKER_COOLDOWN", cfg.BreakerCooldown)
	cfg.RateWindow = getDuration("RATE_WINDOW", cfg.RateWindow)
	cfg.BreakerThreshold = getInt("BREAKER_THRESHOLD", cfg.BreakerThreshold)
	cfg.RateLimit = getInt("RATE_LIMIT", cfg.RateLimit)
	if origins, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		cfg.CORSOrigins = splitList(origins)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.CoffeeMakerURL == "" {
		return fmt.Errorf("coffeemaker url is required")
	}
	if c.HTTPPort == "" {
		return fmt.Errorf("http port is required")
	}
	if c.BreakerThreshold < 1 {
		return fmt.Errorf("breaker threshold must be positive, got %d", c.BreakerThreshold)
	}
	if c.RateLimit < 1 {
		return fmt.Errorf("rate limit must be positive, got %d", c.RateLimit)
	}
	for name, d := range map[string]time.Duration{
		"upstream timeout": c.UpstreamTimeout,
		"breaker cooldown": c.BreakerCooldown,
		"rate window":      c.RateWindow,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("Ignoring invalid duration", "key", key, "value", value)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Ignoring invalid integer", "key", key, "value", value)
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
