package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		configContent := `
server:
  listen: ":9090"
  timeout: 45s

provider:
  base_url: https://api.example.com/3
  api_key: test-key
  timeout: 5s
  rate_limit: 10
  burst: 4
  max_attempts: 3

fetch:
  max_workers: 8
  page_cap: 3
  run_budget: 5m

recommend:
  default_language: en
  language_allow_list: [fr, es, ja]
  freshness_window: 168h
  max_genre_share: 0.5
  max_candidates: 200
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "test-config.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)

		assert.Equal(t, "https://api.example.com/3", cfg.Provider.BaseURL)
		assert.Equal(t, "test-key", cfg.Provider.APIKey)
		assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
		assert.InDelta(t, 10.0, cfg.Provider.RateLimit, 0.001)
		assert.Equal(t, 4, cfg.Provider.Burst)
		assert.Equal(t, 3, cfg.Provider.MaxAttempts)

		assert.Equal(t, 8, cfg.Fetch.MaxWorkers)
		assert.Equal(t, 3, cfg.Fetch.PageCap)
		assert.Equal(t, 5*time.Minute, cfg.Fetch.RunBudget)

		assert.Equal(t, "en", cfg.Recommend.DefaultLanguage)
		assert.Equal(t, []string{"fr", "es", "ja"}, cfg.Recommend.LanguageAllowList)
		assert.Equal(t, 168*time.Hour, cfg.Recommend.FreshnessWindow)
		assert.InDelta(t, 0.5, cfg.Recommend.MaxGenreShare, 0.001)
		assert.Equal(t, 200, cfg.Recommend.MaxCandidates)
	})

	t.Run("defaults", func(t *testing.T) {
		configContent := `
provider:
  base_url: https://api.example.com/3
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "test-config.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":8080", cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)

		assert.Equal(t, 10*time.Second, cfg.Provider.Timeout)
		assert.InDelta(t, 4.0, cfg.Provider.RateLimit, 0.001)
		assert.Equal(t, 2, cfg.Provider.Burst)
		assert.Equal(t, 4, cfg.Provider.MaxAttempts)

		assert.Equal(t, 4, cfg.Fetch.MaxWorkers)
		assert.Equal(t, 5, cfg.Fetch.PageCap)
		assert.Equal(t, 10*time.Minute, cfg.Fetch.RunBudget)

		assert.Equal(t, "en", cfg.Recommend.DefaultLanguage)
		assert.Equal(t, 14*24*time.Hour, cfg.Recommend.FreshnessWindow)
		assert.InDelta(t, 0.4, cfg.Recommend.MaxGenreShare, 0.001)
		assert.Equal(t, 500, cfg.Recommend.MaxCandidates)

		assert.Equal(t, 10, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 3600, cfg.Database.ConnMaxLifetime)
		assert.Contains(t, cfg.Database.DSN, "movierec.db")
	})

	t.Run("env expansion", func(t *testing.T) {
		t.Setenv("TEST_API_KEY", "secret-from-env")
		configContent := `
provider:
  base_url: https://api.example.com/3
  api_key: ${TEST_API_KEY}
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "test-config.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, "secret-from-env", cfg.Provider.APIKey)
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configContent := `
invalid yaml content
  with bad indentation
    and no structure
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "invalid.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("missing provider base url", func(t *testing.T) {
		configContent := `
server:
  listen: ":8080"
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "no-provider.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "provider.base_url is required")
	})

	t.Run("genre share out of range", func(t *testing.T) {
		configContent := `
provider:
  base_url: https://api.example.com/3

recommend:
  max_genre_share: 1.5
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "bad-share.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "max_genre_share")
	})
}

func TestConfig_Getters(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Listen = ":9999"
	cfg.Server.Timeout = 15 * time.Second
	cfg.Provider.BaseURL = "https://api.example.com/3"
	cfg.Fetch.MaxWorkers = 7
	cfg.Recommend.DefaultLanguage = "de"

	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, ":9999", listen)
	assert.Equal(t, 15*time.Second, timeout)

	assert.Equal(t, "https://api.example.com/3", cfg.GetProviderConfig().BaseURL)
	assert.Equal(t, 7, cfg.GetFetchConfig().MaxWorkers)
	assert.Equal(t, "de", cfg.GetRecommendConfig().DefaultLanguage)
}
