package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/astralwake/jarviq/pkg/router"
)

// Config holds the application configuration.
type Config struct {
	AnthropicAPIKey    string
	OpenAIAPIKey       string
	GoogleAPIKey       string
	ClassifierProvider string
	ClassifierModel    string
	Router             router.Config
	TraceDir           string
	ConfigDir          string
}

// FileConfig represents the structure of ~/.jarviq/config.yaml
type FileConfig struct {
	APIKeys    APIKeysConfig    `yaml:"api_keys"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Router     RouterConfig     `yaml:"router"`
	Trace      TraceConfig      `yaml:"trace"`
}

// APIKeysConfig holds API key configuration from file.
type APIKeysConfig struct {
	Anthropic string `yaml:"anthropic"`
	OpenAI    string `yaml:"openai"`
	Google    string `yaml:"google"`
}

// ClassifierConfig selects the provider and model used for routing.
type ClassifierConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

// RouterConfig holds the router tunables from file.
type RouterConfig struct {
	RequestLimit          int     `yaml:"request_limit"`
	RequestWindowSeconds  int     `yaml:"request_window_seconds"`
	CacheCapacity         int     `yaml:"cache_capacity"`
	HistoryCapacity       int     `yaml:"history_capacity"`
	MaxInputLength        int     `yaml:"max_input_length"`
	ClassifyAttempts      int     `yaml:"classify_retry_attempts"`
	ClassifyRetryDelaySec float64 `yaml:"classify_retry_delay_seconds"`
	ClassifyTimeoutSec    float64 `yaml:"classify_timeout_seconds"`
}

// TraceConfig controls run-record persistence.
type TraceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Load reads configuration from the config file and environment variables.
// Environment variables take precedence over file configuration.
func Load() (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	fileConfig := loadFileConfig(filepath.Join(configDir, "config.yaml"))

	cfg := &Config{
		AnthropicAPIKey:    getEnvOrDefault("ANTHROPIC_API_KEY", fileConfig.APIKeys.Anthropic),
		OpenAIAPIKey:       getEnvOrDefault("OPENAI_API_KEY", fileConfig.APIKeys.OpenAI),
		GoogleAPIKey:       getEnvOrDefault("GOOGLE_API_KEY", fileConfig.APIKeys.Google),
		ClassifierProvider: getEnvOrDefault("JARVIQ_CLASSIFIER", fileConfig.Classifier.Provider),
		ClassifierModel:    fileConfig.Classifier.Model,
		Router:             fileConfig.Router.toRouterConfig(),
		ConfigDir:          configDir,
	}

	if fileConfig.Trace.Enabled {
		cfg.TraceDir = fileConfig.Trace.Dir
		if cfg.TraceDir == "" {
			cfg.TraceDir = filepath.Join(configDir, "runs")
		}
	}

	return cfg, nil
}

// HasProvider returns true if the API key for the given provider is
// configured. The mock provider needs no key.
func (c *Config) HasProvider(name string) bool {
	switch name {
	case "anthropic":
		return c.AnthropicAPIKey != ""
	case "openai":
		return c.OpenAIAPIKey != ""
	case "google":
		return c.GoogleAPIKey != ""
	case "mock":
		return true
	default:
		return false
	}
}

func (rc RouterConfig) toRouterConfig() router.Config {
	return router.Config{
		RequestLimit:       rc.RequestLimit,
		RequestWindow:      time.Duration(rc.RequestWindowSeconds) * time.Second,
		CacheCapacity:      rc.CacheCapacity,
		HistoryCapacity:    rc.HistoryCapacity,
		MaxInputLength:     rc.MaxInputLength,
		ClassifyAttempts:   rc.ClassifyAttempts,
		ClassifyRetryDelay: time.Duration(rc.ClassifyRetryDelaySec * float64(time.Second)),
		ClassifyTimeout:    time.Duration(rc.ClassifyTimeoutSec * float64(time.Second)),
	}
}

// loadFileConfig reads the config file, returning empty config if not found.
func loadFileConfig(path string) *FileConfig {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, cfg)
	return cfg
}

func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".jarviq")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}
