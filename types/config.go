/*
Copyright © 2025 Orbis Authors
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose   bool            `mapstructure:"verbose"`
	Config    string          `mapstructure:"config"`
	Project   ProjectConfig   `mapstructure:"project" validate:"required"`
	Data      DataConfig      `mapstructure:"data" validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm" validate:"omitempty"`
	Search    SearchConfig    `mapstructure:"search" validate:"omitempty"`
	Telegram  TelegramConfig  `mapstructure:"telegram" validate:"omitempty"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" validate:"omitempty"`
}

// ProjectConfig holds project-level paths
type ProjectConfig struct {
	RootDir string `mapstructure:"rootDir" validate:"required"`
}

// DataConfig holds data storage configuration
type DataConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=file sqlite"`
	File    string `mapstructure:"file" validate:"required"`
	Format  string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
}

// LLMConfig holds configuration for the AI provider
type LLMConfig struct {
	Provider string `mapstructure:"provider" validate:"omitempty,oneof=openai ollama anthropic gemini"`
	Model    string `mapstructure:"model" validate:"omitempty,min=1"`
	APIKey   string `mapstructure:"apiKey" validate:"omitempty,min=1"`
	// BaseURL points at the Ollama host or an OpenAI-compatible endpoint
	BaseURL string `mapstructure:"baseURL" validate:"omitempty,url"`
	// RequestTimeoutSeconds controls the timeout for one model call
	RequestTimeoutSeconds int `mapstructure:"requestTimeoutSeconds" validate:"omitempty,min=5,max=600"`
}

// SearchConfig holds the Brave web search settings
type SearchConfig struct {
	BraveAPIKey string `mapstructure:"braveApiKey" validate:"omitempty,min=1"`
}

// TelegramConfig holds the webhook bot settings
type TelegramConfig struct {
	BotToken string `mapstructure:"botToken" validate:"omitempty,min=1"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// TelemetryConfig holds the opt-in analytics settings
type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"apiKey" validate:"omitempty,min=1"`
}
