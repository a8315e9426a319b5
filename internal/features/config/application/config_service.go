package application

import (
	"fmt"

	"specforge/internal/config"
	"specforge/internal/features/config/domain"
)

// ConfigService defines the interface for generation settings management.
type ConfigService interface {
	GetSettings() (*domain.AppConfig, error)
	UpdateSettings(settings *domain.AppConfig) (*domain.AppConfig, error)
}

// configService layers defaults and validation over the settings store.
type configService struct {
	store config.AppConfigService
}

// NewConfigService creates a new instance of configService.
func NewConfigService(store config.AppConfigService) ConfigService {
	return &configService{store: store}
}

// GetSettings returns the stored settings with defaults filled in.
func (s *configService) GetSettings() (*domain.AppConfig, error) {
	stored, err := s.store.LoadAppConfig()
	if err != nil {
		return nil, err
	}
	return stored.WithDefaults(), nil
}

// UpdateSettings validates and persists the settings, returning what was saved.
func (s *configService) UpdateSettings(settings *domain.AppConfig) (*domain.AppConfig, error) {
	merged := settings.WithDefaults()
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.SaveAppConfig(merged); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return merged, nil
}
