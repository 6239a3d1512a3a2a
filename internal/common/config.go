package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration. It is loaded once at
// startup and passed explicitly to the services that need it; nothing in
// this codebase reads configuration through global state.
type Config struct {
	Environment string           `toml:"environment" validate:"oneof=development production"`
	Logging     LoggingConfig    `toml:"logging"`
	Storage     StorageConfig    `toml:"storage"`
	Engine      EngineConfig     `toml:"engine"`
	Costs       CostsConfig      `toml:"costs"`
	Scraper     ScraperConfig    `toml:"scraper"`
	Claude      ClaudeConfig     `toml:"claude"`
	Gemini      GeminiConfig     `toml:"gemini"`
	LLM         LLMConfig        `toml:"llm"`
	Schedules   []ScheduleConfig `toml:"schedules" validate:"dive"`
}

type LoggingConfig struct {
	Level      string   `toml:"level" validate:"oneof=debug info warn error"`
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

// EngineConfig tunes the batch engine. The delay and cooldown defaults carry
// over from production; they are operational knobs, not correctness
// constants, and are candidates for per-vendor tuning.
type EngineConfig struct {
	MaxAttempts       int     `toml:"max_attempts" validate:"min=1"`
	BaseDelay         string  `toml:"base_delay"` // e.g. "5s"
	BackoffMultiplier float64 `toml:"backoff_multiplier" validate:"min=1"`
	GroupCooldown     string  `toml:"group_cooldown"` // e.g. "1s"
	LightGroupSize    int     `toml:"light_group_size" validate:"min=1"`
	DeepGroupSize     int     `toml:"deep_group_size" validate:"min=1"`
	XRayGroupSize     int     `toml:"xray_group_size" validate:"min=1"`
	DefaultGroupSize  int     `toml:"default_group_size" validate:"min=1"`
}

// CostTier is the per-item pricing for one analysis depth.
type CostTier struct {
	Credits    int64   `toml:"credits" validate:"min=0"`
	ActualCost float64 `toml:"actual_cost" validate:"min=0"`
}

type CostsConfig struct {
	Light CostTier `toml:"light"`
	Deep  CostTier `toml:"deep"`
	XRay  CostTier `toml:"xray"`
}

// ScraperConfig configures the profile fetcher.
type ScraperConfig struct {
	BaseURL        string  `toml:"base_url"`
	UserAgent      string  `toml:"user_agent"`
	RequestTimeout string  `toml:"request_timeout"` // e.g. "30s"
	RateLimit      float64 `toml:"rate_limit"`      // requests per second against the vendor
	MaxBodySize    int     `toml:"max_body_size"`   // bytes
}

type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Timeout     string  `toml:"timeout"`
	Temperature float32 `toml:"temperature"`
}

type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Timeout     string  `toml:"timeout"`
	Temperature float32 `toml:"temperature"`
}

type LLMConfig struct {
	// Provider selects the scoring backend: "claude", "gemini", or "offline"
	// (deterministic heuristics only, no model calls).
	Provider string `toml:"provider" validate:"oneof=claude gemini offline"`
}

// ScheduleConfig describes one recurring batch submission.
type ScheduleConfig struct {
	Name      string   `toml:"name" validate:"required"`
	Cron      string   `toml:"cron" validate:"required"`
	AccountID string   `toml:"account_id" validate:"required"`
	Platform  string   `toml:"platform"`
	Depth     string   `toml:"depth" validate:"oneof=light deep xray"`
	Handles   []string `toml:"handles" validate:"min=1"`
}

// NewDefaultConfig returns configuration defaults. File and environment
// values override these.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/oslira.db",
				ResetOnStartup: false,
			},
		},
		Engine: EngineConfig{
			MaxAttempts:       3,
			BaseDelay:         "5s",
			BackoffMultiplier: 2.0,
			GroupCooldown:     "1s",
			LightGroupSize:    8,
			DeepGroupSize:     5,
			XRayGroupSize:     3,
			DefaultGroupSize:  10,
		},
		Costs: CostsConfig{
			Light: CostTier{Credits: 1, ActualCost: 0.03},
			Deep:  CostTier{Credits: 2, ActualCost: 0.09},
			XRay:  CostTier{Credits: 3, ActualCost: 0.18},
		},
		Scraper: ScraperConfig{
			UserAgent:      "oslira-workers/1.0",
			RequestTimeout: "30s",
			RateLimit:      5,
			MaxBodySize:    2 * 1024 * 1024,
		},
		Claude: ClaudeConfig{
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   2048,
			Timeout:     "2m",
			Temperature: 0.3,
		},
		Gemini: GeminiConfig{
			Model:       "gemini-3-flash-preview",
			Timeout:     "2m",
			Temperature: 0.3,
		},
		LLM: LLMConfig{
			Provider: "offline",
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 ->
// file2 -> ... -> environment. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the loaded configuration, including duration fields that
// are parsed lazily elsewhere.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for name, value := range map[string]string{
		"engine.base_delay":       c.Engine.BaseDelay,
		"engine.group_cooldown":   c.Engine.GroupCooldown,
		"scraper.request_timeout": c.Scraper.RequestTimeout,
		"claude.timeout":          c.Claude.Timeout,
		"gemini.timeout":          c.Gemini.Timeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", name, err)
		}
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("OSLIRA_ENV"); env != "" {
		config.Environment = env
	}
	if level := os.Getenv("OSLIRA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if path := os.Getenv("OSLIRA_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}
	if attempts := os.Getenv("OSLIRA_ENGINE_MAX_ATTEMPTS"); attempts != "" {
		if v, err := strconv.Atoi(attempts); err == nil {
			config.Engine.MaxAttempts = v
		}
	}
	if delay := os.Getenv("OSLIRA_ENGINE_BASE_DELAY"); delay != "" {
		config.Engine.BaseDelay = delay
	}
	if cooldown := os.Getenv("OSLIRA_ENGINE_GROUP_COOLDOWN"); cooldown != "" {
		config.Engine.GroupCooldown = cooldown
	}
	if provider := os.Getenv("OSLIRA_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if url := os.Getenv("OSLIRA_SCRAPER_BASE_URL"); url != "" {
		config.Scraper.BaseURL = url
	}
}

// ParseDuration parses a config duration string that Validate has already
// checked, falling back to the given default when empty or malformed.
func ParseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
