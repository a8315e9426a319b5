package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ClientDir holds the terminal client's config and logs under the user's home.
	ClientDir = ".specforge"

	clientConfigFile = "client.yaml"

	DefaultAPIURL              = "http://localhost:5000/api"
	DefaultRequestTimeout      = 3 * time.Minute
	DefaultDeleteConfirmWindow = 3 * time.Second
)

// ClientConfig is the terminal client's configuration, read from
// ~/.specforge/client.yaml when present.
type ClientConfig struct {
	APIURL              string        `yaml:"api_url"`
	RequestTimeout      time.Duration `yaml:"request_timeout"`
	DeleteConfirmWindow time.Duration `yaml:"delete_confirm_window"`
	LogPath             string        `yaml:"log_path"`
}

func defaultClientConfig(home string) ClientConfig {
	return ClientConfig{
		APIURL:              DefaultAPIURL,
		RequestTimeout:      DefaultRequestTimeout,
		DeleteConfirmWindow: DefaultDeleteConfirmWindow,
		LogPath:             filepath.Join(home, ClientDir, "logs", "tui.log"),
	}
}

// DefaultClientConfigPath returns ~/.specforge/client.yaml.
func DefaultClientConfigPath(home string) string {
	return filepath.Join(home, ClientDir, clientConfigFile)
}

// LoadClientConfig reads path (missing file means defaults) and applies the
// SPECFORGE_API_URL override.
func LoadClientConfig(home, path string) (*ClientConfig, error) {
	cfg := defaultClientConfig(home)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		var fileCfg ClientConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg.merge(fileCfg)
	}

	if url := strings.TrimSpace(os.Getenv("SPECFORGE_API_URL")); url != "" {
		cfg.APIURL = url
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *ClientConfig) merge(other ClientConfig) {
	if other.APIURL != "" {
		c.APIURL = other.APIURL
	}
	if other.RequestTimeout > 0 {
		c.RequestTimeout = other.RequestTimeout
	}
	if other.DeleteConfirmWindow > 0 {
		c.DeleteConfirmWindow = other.DeleteConfirmWindow
	}
	if other.LogPath != "" {
		c.LogPath = other.LogPath
	}
}

func (c *ClientConfig) Validate() error {
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("config: api_url must be an http(s) URL, got %q", c.APIURL)
	}
	return nil
}
