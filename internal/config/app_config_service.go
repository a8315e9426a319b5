package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"specforge/internal/features/config/domain"
)

// AppConfigService defines the interface for generation settings storage.
type AppConfigService interface {
	LoadAppConfig() (*domain.AppConfig, error)
	SaveAppConfig(config *domain.AppConfig) error
}

// appConfigService is the implementation of AppConfigService backed by a JSON file.
type appConfigService struct {
	configPath string
	mu         sync.RWMutex
}

// NewAppConfigService creates a new instance of appConfigService.
func NewAppConfigService(configPath string) AppConfigService {
	return &appConfigService{configPath: configPath}
}

// LoadAppConfig loads the settings from the configured JSON file. A missing
// file yields the defaults.
func (s *appConfigService) LoadAppConfig() (*domain.AppConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	absPath, err := filepath.Abs(s.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", s.configPath, err)
	}

	data, err := os.ReadFile(absPath)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("[config] %s not found, using default generation settings", absPath)
		return domain.DefaultAppConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read app config file %s: %w", absPath, err)
	}

	var appConfig domain.AppConfig
	if err := json.Unmarshal(data, &appConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal app config from %s: %w", absPath, err)
	}
	return &appConfig, nil
}

// SaveAppConfig writes the settings to the configured JSON file, creating
// its directory when needed.
func (s *appConfigService) SaveAppConfig(appConfig *domain.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	absPath, err := filepath.Abs(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for %s: %w", s.configPath, err)
	}

	data, err := json.MarshalIndent(appConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal app config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir for %s: %w", absPath, err)
	}
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write app config to file %s: %w", absPath, err)
	}
	return nil
}
