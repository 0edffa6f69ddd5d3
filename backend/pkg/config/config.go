package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	apperrors "github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port                   string
	Env                    string
	LogLevel               string
	CORSAllowOrigins       []string
	ShutdownTimeoutSeconds int

	// LLM completion (optional, disabled when LiteLLMURL is empty)
	LiteLLMURL       string
	ModelID          string
	OpenRouterAPIKey string

	// Tokenizers
	HFHubCache         string // HuggingFace hub cache directory, never fetched from the network
	PrimaryTokenizer   string // Fallback when a model exposes no primary tokenizer
	SecondaryTokenizer string // Fallback when a model exposes no secondary tokenizer
	ModelsFile         string // YAML file declaring model handles
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:                   getEnv("PORT", "8188"),
		Env:                    getEnv("ENV", "development"),
		LogLevel:               getEnv("LOG_LEVEL", ""),
		CORSAllowOrigins:       getEnvList("CORS_ALLOW_ORIGINS", []string{"*"}),
		ShutdownTimeoutSeconds: getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 5),
		LiteLLMURL:             getEnv("LITELLM_URL", ""),
		ModelID:                getEnv("MODEL_ID", "openrouter/anthropic/claude-3.5-sonnet"),
		OpenRouterAPIKey:       getEnv("OPENROUTER_API_KEY", ""),
		HFHubCache:             getEnv("HF_HUB_CACHE", defaultHubCache()),
		PrimaryTokenizer:       getEnv("PRIMARY_TOKENIZER", "t5-xxl"),
		SecondaryTokenizer:     getEnv("SECONDARY_TOKENIZER", "openai/clip-vit-large-patch14"),
		ModelsFile:             getEnv("MODELS_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Port == "" {
		return apperrors.NewConfigMissingRequired("PORT")
	}
	if c.PrimaryTokenizer == "" {
		return apperrors.NewConfigMissingRequired("PRIMARY_TOKENIZER")
	}
	if c.SecondaryTokenizer == "" {
		return apperrors.NewConfigMissingRequired("SECONDARY_TOKENIZER")
	}
	if c.LiteLLMURL != "" && c.ModelID == "" {
		return apperrors.NewConfigValidationFailed("MODEL_ID", "required when LITELLM_URL is set")
	}
	if c.ShutdownTimeoutSeconds <= 0 {
		return apperrors.NewConfigValidationFailed("SHUTDOWN_TIMEOUT_SECONDS", "must be positive")
	}
	// OpenRouter API key is optional, LiteLLM accepts a dummy key
	return nil
}

// CompletionEnabled returns true if an LLM endpoint is configured
func (c *Config) CompletionEnabled() bool {
	return c.LiteLLMURL != ""
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func defaultHubCache() string {
	if home := os.Getenv("HF_HOME"); home != "" {
		return filepath.Join(home, "hub")
	}
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".cache", "huggingface", "hub")
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
