package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	AI       AIConfig
	App      AppConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string
	// Path is the SQLite file; DSN is used for postgres.
	Path string
	DSN  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	ListTTL  time.Duration
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type AIConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

type AppConfig struct {
	Environment  string
	Version      string
	SettingsPath string
	ServiceName  string
}

const (
	providerGroq   = "groq"
	providerOpenAI = "openai"

	groqBaseURL = "https://api.groq.com/openai/v1"
)

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	provider := strings.ToLower(getEnv("AI_PROVIDER", providerGroq))
	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "5000"),
			CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			Path:   getEnv("DB_PATH", "briefs.db"),
			DSN:    getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			ListTTL:  getEnvAsDuration("REDIS_LIST_TTL", 5*time.Minute),
		},
		AI: AIConfig{
			Provider: provider,
			APIKey:   apiKeyFor(provider),
			BaseURL:  getEnv("AI_BASE_URL", defaultBaseURL(provider)),
			Model:    getEnv("AI_MODEL", ""),
			Timeout:  getEnvAsDuration("AI_TIMEOUT", 2*time.Minute),
		},
		App: AppConfig{
			Environment:  getEnv("APP_ENV", "development"),
			Version:      getEnv("APP_VERSION", "1.0.0"),
			SettingsPath: getEnv("APP_CONFIG_PATH", "config/app_config.json"),
			ServiceName:  getEnv("SERVICE_NAME", "specforge"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.AI.Provider {
	case providerGroq, providerOpenAI:
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q", c.AI.Provider)
	}
	if c.AI.APIKey == "" {
		return fmt.Errorf("%s is required", apiKeyEnv(c.AI.Provider))
	}

	return nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func apiKeyEnv(provider string) string {
	if provider == providerOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GROQ_API_KEY"
}

func apiKeyFor(provider string) string {
	if key := getEnv("AI_API_KEY", ""); key != "" {
		return key
	}
	return getEnv(apiKeyEnv(provider), "")
}

func defaultBaseURL(provider string) string {
	if provider == providerGroq {
		return groqBaseURL
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
