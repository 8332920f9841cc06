// Package config handles configuration loading and management for Lettersmith.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// DefaultAnthropicModel is used when an API key is supplied without a model name.
const DefaultAnthropicModel = "claude-sonnet-4-20250514"

// Config holds all configuration for Lettersmith.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Ollama    OllamaConfig    `mapstructure:"ollama"`
	Embedder  EmbedderConfig  `mapstructure:"embedder"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	DataDir   string          `mapstructure:"data_dir"`
}

// AnthropicConfig holds hosted-backend settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
	// UseBedrock routes API calls through AWS Bedrock instead of the direct API.
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// OllamaConfig holds local-backend settings used when no API key is configured.
type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// EmbedderConfig holds settings for the semantic-search embedding model.
type EmbedderConfig struct {
	Model string `mapstructure:"model"`
}

// ScraperConfig holds settings for the job-posting scrape tool.
type ScraperConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.lettersmith.yaml in current directory or parent)
// 3. User config (~/.config/lettersmith/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("")
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("anthropic.model", "LETTERSMITH_MODEL")
	v.BindEnv("ollama.base_url", "LETTERSMITH_OLLAMA_URL")
	v.BindEnv("data_dir", "LETTERSMITH_DATA_DIR")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_bedrock", cfg.Anthropic.UseBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("ollama.base_url", cfg.Ollama.BaseURL)
	v.Set("ollama.model", cfg.Ollama.Model)
	v.Set("embedder.model", cfg.Embedder.Model)
	v.Set("scraper.timeout", cfg.Scraper.Timeout.String())
	v.Set("data_dir", cfg.DataDir)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetAgentsPath returns the path to the optional agents.yaml role overrides.
func GetAgentsPath() string {
	return filepath.Join(getUserConfigDir(), "agents.yaml")
}

// ResolveDataDir returns the configured data directory, expanded and absolute.
// An empty setting resolves to ~/.local/share/lettersmith.
func (c *Config) ResolveDataDir() string {
	dir := expandEnv(c.DataDir)
	if dir == "" {
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			return filepath.Join(xdgData, "lettersmith")
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", "lettersmith-data")
		}
		return filepath.Join(home, ".local", "share", "lettersmith")
	}
	return dir
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", DefaultAnthropicModel)
	v.SetDefault("anthropic.use_bedrock", false)
	v.SetDefault("ollama.base_url", "http://localhost:11434/v1")
	v.SetDefault("ollama.model", "qwen3:latest")
	v.SetDefault("embedder.model", "mxbai-embed-large:latest")
	v.SetDefault("scraper.timeout", "30s")
	v.SetDefault("data_dir", "")
}

// getUserConfigDir returns the XDG config directory for Lettersmith.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "lettersmith")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "lettersmith")
	}
	return filepath.Join(home, ".config", "lettersmith")
}

// findProjectConfig searches for .lettersmith.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".lettersmith.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{
			APIKey: "",
			Model:  DefaultAnthropicModel,
		},
		Ollama: OllamaConfig{
			BaseURL: "http://localhost:11434/v1",
			Model:   "qwen3:latest",
		},
		Embedder: EmbedderConfig{
			Model: "mxbai-embed-large:latest",
		},
		Scraper: ScraperConfig{
			Timeout: 30 * time.Second,
		},
	}
}
