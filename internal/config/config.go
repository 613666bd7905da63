package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Test        Environment = "test"
)

// Config holds the configuration shared by the api and web binaries.
type Config struct {
	Env Environment `json:"env"`

	APIPort string `json:"api_port"`
	WebPort string `json:"web_port"`

	GeminiAPIKey string `json:"gemini_api_key"`
	GeminiModel  string `json:"gemini_model"`

	// LocalLLMURL enables POST /generate-recipe-local when set.
	LocalLLMURL   string `json:"local_llm_url"`
	LocalLLMModel string `json:"local_llm_model"`

	DatabaseURL      string `json:"DATABASE_URL"`
	RedisURL         string `json:"redis_url"`
	RateLimitPerHour int    `json:"rate_limit_per_hour"`

	// APIBaseURL is where the web front-end reaches the generation service.
	APIBaseURL     string        `json:"api_base_url"`
	RequestTimeout time.Duration `json:"-"`
	AllowedOrigins []string      `json:"allowed_origins"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}

func defaults() *Config {
	return &Config{
		Env:              Development,
		APIPort:          "5000",
		WebPort:          "8080",
		GeminiModel:      "gemini-1.5-flash",
		LocalLLMModel:    "gemma-3-12b-it:2",
		RateLimitPerHour: 30,
		APIBaseURL:       "http://localhost:5000",
		RequestTimeout:   45 * time.Second,
		AllowedOrigins:   []string{"http://localhost:8080"},
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Load builds the configuration from defaults, an optional .env file, an
// optional JSON config file (CONFIG_FILE, default config.json) and finally the
// process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := defaults()

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.json"
	}
	if err := loadFile(cfg, path); err != nil {
		return nil, err
	}

	if err := loadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return nil
}

func loadEnv(cfg *Config) error {
	setString(&cfg.APIPort, "API_PORT")
	setString(&cfg.WebPort, "WEB_PORT")
	setString(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&cfg.GeminiModel, "GEMINI_MODEL")
	setString(&cfg.LocalLLMURL, "LOCAL_LLM_URL")
	setString(&cfg.LocalLLMModel, "LOCAL_LLM_MODEL")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.APIBaseURL, "API_BASE_URL")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")

	// The original service read GOOGLE_API_KEY.
	if cfg.GeminiAPIKey == "" {
		setString(&cfg.GeminiAPIKey, "GOOGLE_API_KEY")
	}

	if v := os.Getenv("ENV"); v != "" {
		cfg.Env = Environment(strings.ToLower(v))
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.AllowedOrigins = origins
	}
	if v := os.Getenv("RATE_LIMIT_PER_HOUR"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_PER_HOUR %q: %w", v, err)
		}
		cfg.RateLimitPerHour = n
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", v, err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// IsProduction returns true if the configured environment is production
func (c *Config) IsProduction() bool {
	return c.Env == Production
}

// ValidateAPI checks the settings the generation service needs.
func (c *Config) ValidateAPI() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.APIPort == "" {
		return fmt.Errorf("API_PORT is required")
	}
	if c.RedisURL != "" && c.RateLimitPerHour <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_HOUR must be positive when REDIS_URL is set")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS must list at least one origin")
	}
	return nil
}

// ValidateWeb checks the settings the web front-end needs.
func (c *Config) ValidateWeb() error {
	if c.WebPort == "" {
		return fmt.Errorf("WEB_PORT is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	return nil
}
