package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:movierec.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Provider ProviderConfig `yaml:"provider" json:"provider" jsonschema:"description=External metadata provider configuration"`

	Fetch FetchConfig `yaml:"fetch" json:"fetch" jsonschema:"description=Fetch orchestrator configuration"`

	Recommend RecommendConfig `yaml:"recommend" json:"recommend" jsonschema:"description=Recommendation engine configuration"`
}

// ProviderConfig holds settings for the external metadata provider client
type ProviderConfig struct {
	BaseURL     string        `yaml:"base_url" json:"base_url" jsonschema:"required,description=Metadata provider API base URL"`
	APIKey      string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Per-request timeout"`
	RateLimit   float64       `yaml:"rate_limit" json:"rate_limit" jsonschema:"default=4,description=Caller-side request rate limit in requests per second"`
	Burst       int           `yaml:"burst" json:"burst" jsonschema:"default=2,description=Rate limiter burst size"`
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts" jsonschema:"default=4,description=Maximum attempts per page including retries"`
}

// FetchConfig holds settings for scheduled metadata ingestion
type FetchConfig struct {
	MaxWorkers int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=4,description=Maximum concurrent category workers"`
	PageCap    int           `yaml:"page_cap" json:"page_cap" jsonschema:"default=5,description=Safety cap on pages fetched per category"`
	RunBudget  time.Duration `yaml:"run_budget" json:"run_budget" jsonschema:"default=10m,description=Soft wall-clock budget for a fetch run"`
}

// RecommendConfig holds settings for the scoring and ranking engine
type RecommendConfig struct {
	DefaultLanguage   string        `yaml:"default_language" json:"default_language" jsonschema:"default=en,description=Caller default language for international fit"`
	LanguageAllowList []string      `yaml:"language_allow_list" json:"language_allow_list" jsonschema:"description=Languages given partial credit under medium international preference"`
	FreshnessWindow   time.Duration `yaml:"freshness_window" json:"freshness_window" jsonschema:"default=336h,description=Maximum metadata age for recommendation candidates"`
	MaxGenreShare     float64       `yaml:"max_genre_share" json:"max_genre_share" jsonschema:"default=0.4,description=Maximum fraction of the top results sharing one dominant genre"`
	MaxCandidates     int           `yaml:"max_candidates" json:"max_candidates" jsonschema:"default=500,description=Maximum candidate pool size read per request"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// setDefaults fills zero-valued fields with their documented defaults
func setDefaults(cfg *Config) {
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:movierec.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	if cfg.Provider.Timeout == 0 {
		cfg.Provider.Timeout = 10 * time.Second
	}
	if cfg.Provider.RateLimit == 0 {
		cfg.Provider.RateLimit = 4
	}
	if cfg.Provider.Burst == 0 {
		cfg.Provider.Burst = 2
	}
	if cfg.Provider.MaxAttempts == 0 {
		cfg.Provider.MaxAttempts = 4
	}

	if cfg.Fetch.MaxWorkers == 0 {
		cfg.Fetch.MaxWorkers = 4
	}
	if cfg.Fetch.PageCap == 0 {
		cfg.Fetch.PageCap = 5
	}
	if cfg.Fetch.RunBudget == 0 {
		cfg.Fetch.RunBudget = 10 * time.Minute
	}

	if cfg.Recommend.DefaultLanguage == "" {
		cfg.Recommend.DefaultLanguage = "en"
	}
	if cfg.Recommend.FreshnessWindow == 0 {
		cfg.Recommend.FreshnessWindow = 14 * 24 * time.Hour
	}
	if cfg.Recommend.MaxGenreShare == 0 {
		cfg.Recommend.MaxGenreShare = 0.4
	}
	if cfg.Recommend.MaxCandidates == 0 {
		cfg.Recommend.MaxCandidates = 500
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// validate provider config
	if cfg.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required")
	}
	if cfg.Provider.RateLimit <= 0 {
		return fmt.Errorf("provider.rate_limit must be positive")
	}
	if cfg.Provider.Timeout < time.Second {
		return fmt.Errorf("provider.timeout must be at least 1 second")
	}
	if cfg.Provider.MaxAttempts < 1 {
		return fmt.Errorf("provider.max_attempts must be at least 1")
	}

	// validate fetch config
	if cfg.Fetch.MaxWorkers < 1 {
		return fmt.Errorf("fetch.max_workers must be at least 1")
	}
	if cfg.Fetch.PageCap < 1 {
		return fmt.Errorf("fetch.page_cap must be at least 1")
	}

	// validate recommend config
	if cfg.Recommend.MaxGenreShare <= 0 || cfg.Recommend.MaxGenreShare > 1 {
		return fmt.Errorf("recommend.max_genre_share must be in (0, 1]")
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetProviderConfig returns metadata provider configuration
func (c *Config) GetProviderConfig() ProviderConfig {
	return c.Provider
}

// GetFetchConfig returns fetch orchestrator configuration
func (c *Config) GetFetchConfig() FetchConfig {
	return c.Fetch
}

// GetRecommendConfig returns recommendation engine configuration
func (c *Config) GetRecommendConfig() RecommendConfig {
	return c.Recommend
}
