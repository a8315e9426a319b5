package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidSettings is returned when generation settings fail validation.
var ErrInvalidSettings = errors.New("invalid generation settings")

// AppConfig represents the generation settings applied to every brief.
type AppConfig struct {
	SystemPrompt    string      `json:"system_prompt"`
	ItemsPerSection ItemRange   `json:"items_per_section"`
	ModelParams     ModelParams `json:"model_params"`
}

// ModelParams defines the parameters for the AI model.
type ModelParams struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// ItemRange bounds how many entries the model is asked to produce per list section.
type ItemRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

const DefaultSystemPrompt = `You are an expert software architect and technical co-founder.
Your job is to generate detailed, structured engineering specifications for software projects.
Always respond with valid JSON only, no markdown, no extra text, just the JSON object.
Be specific, practical, and realistic. Think like a senior engineer reviewing an MVP scope.`

const (
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.7
)

// DefaultAppConfig returns the settings used when no config file exists.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		SystemPrompt:    DefaultSystemPrompt,
		ItemsPerSection: ItemRange{Min: 4, Max: 6},
		ModelParams: ModelParams{
			Model:       DefaultModel,
			Temperature: DefaultTemperature,
		},
	}
}

// WithDefaults fills zero-valued fields from DefaultAppConfig. Temperature 0
// is a legitimate setting and is kept.
func (c *AppConfig) WithDefaults() *AppConfig {
	d := DefaultAppConfig()
	out := *c
	if out.SystemPrompt == "" {
		out.SystemPrompt = d.SystemPrompt
	}
	if out.ItemsPerSection.Min == 0 && out.ItemsPerSection.Max == 0 {
		out.ItemsPerSection = d.ItemsPerSection
	}
	if out.ModelParams.Model == "" {
		out.ModelParams.Model = d.ModelParams.Model
	}
	return &out
}

// Validate checks ranges the model provider would otherwise reject.
func (c *AppConfig) Validate() error {
	if c.ModelParams.Temperature < 0 || c.ModelParams.Temperature > 2 {
		return fmt.Errorf("%w: temperature must be between 0 and 2, got %v", ErrInvalidSettings, c.ModelParams.Temperature)
	}
	if c.ModelParams.MaxTokens < 0 {
		return fmt.Errorf("%w: max_tokens must not be negative", ErrInvalidSettings)
	}
	r := c.ItemsPerSection
	if r.Min < 0 || r.Max < 0 || r.Min > r.Max {
		return fmt.Errorf("%w: items_per_section must satisfy 0 <= min <= max, got %d-%d", ErrInvalidSettings, r.Min, r.Max)
	}
	return nil
}
