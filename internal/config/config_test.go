package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specforge/internal/features/config/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "CORS_ORIGINS", "DB_DRIVER", "DB_PATH", "DATABASE_URL",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_LIST_TTL",
		"AI_PROVIDER", "AI_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY",
		"AI_BASE_URL", "AI_MODEL", "AI_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "briefs.db", cfg.Database.Path)
	assert.Equal(t, "groq", cfg.AI.Provider)
	assert.Equal(t, "gsk-test", cfg.AI.APIKey)
	assert.Equal(t, groqBaseURL, cfg.AI.BaseURL)
	assert.Equal(t, 2*time.Minute, cfg.AI.Timeout)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_LIST_TTL", "not-a-duration")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Empty(t, cfg.AI.BaseURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 5*time.Minute, cfg.Redis.ListTTL)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "5000"},
			Database: DatabaseConfig{Driver: "sqlite", Path: "briefs.db"},
			AI:       AIConfig{Provider: "groq", APIKey: "k"},
		}
	}
	require.NoError(t, base().Validate())

	missingKey := base()
	missingKey.AI.APIKey = ""
	assert.EqualError(t, missingKey.Validate(), "GROQ_API_KEY is required")

	pg := base()
	pg.Database.Driver = "postgres"
	assert.EqualError(t, pg.Validate(), "DATABASE_URL is required for the postgres driver")

	badDriver := base()
	badDriver.Database.Driver = "mysql"
	assert.Error(t, badDriver.Validate())

	badProvider := base()
	badProvider.AI.Provider = "gemini"
	assert.Error(t, badProvider.Validate())
}

func TestAppConfigServiceDefaultsWhenMissing(t *testing.T) {
	svc := NewAppConfigService(filepath.Join(t.TempDir(), "missing.json"))
	cfg, err := svc.LoadAppConfig()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppConfig(), cfg)
}

func TestAppConfigServiceSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app_config.json")
	svc := NewAppConfigService(path)

	want := &domain.AppConfig{
		SystemPrompt:    "be terse",
		ItemsPerSection: domain.ItemRange{Min: 2, Max: 3},
		ModelParams:     domain.ModelParams{Model: "gpt-4o", Temperature: 0.2, MaxTokens: 4000},
	}
	require.NoError(t, svc.SaveAppConfig(want))

	got, err := svc.LoadAppConfig()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAppConfigServiceRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app_config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewAppConfigService(path).LoadAppConfig()
	assert.Error(t, err)
}

func TestLoadClientConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SPECFORGE_API_URL", "")

	t.Run("defaults when file missing", func(t *testing.T) {
		cfg, err := LoadClientConfig(home, DefaultClientConfigPath(home))
		require.NoError(t, err)
		assert.Equal(t, DefaultAPIURL, cfg.APIURL)
		assert.Equal(t, DefaultDeleteConfirmWindow, cfg.DeleteConfirmWindow)
		assert.Equal(t, filepath.Join(home, ClientDir, "logs", "tui.log"), cfg.LogPath)
	})

	t.Run("yaml overrides", func(t *testing.T) {
		path := filepath.Join(home, "client.yaml")
		yamlBody := "api_url: https://specforge.example/api\ndelete_confirm_window: 5s\nrequest_timeout: 1m\n"
		require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))

		cfg, err := LoadClientConfig(home, path)
		require.NoError(t, err)
		assert.Equal(t, "https://specforge.example/api", cfg.APIURL)
		assert.Equal(t, 5*time.Second, cfg.DeleteConfirmWindow)
		assert.Equal(t, time.Minute, cfg.RequestTimeout)
	})

	t.Run("env wins over file", func(t *testing.T) {
		t.Setenv("SPECFORGE_API_URL", "http://127.0.0.1:9000/api")
		cfg, err := LoadClientConfig(home, filepath.Join(home, "client.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:9000/api", cfg.APIURL)
	})

	t.Run("invalid url", func(t *testing.T) {
		t.Setenv("SPECFORGE_API_URL", "localhost:5000")
		_, err := LoadClientConfig(home, DefaultClientConfigPath(home))
		assert.Error(t, err)
	})
}
