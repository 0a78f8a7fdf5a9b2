// internal/common/config/config.go
package config

import (
	"fmt"
	"strings"
)

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig              `mapstructure:"app"`
	Server  ServerConfig           `mapstructure:"server"`
	GenAI   GenAIConfig            `mapstructure:"genai"`
	Redis   RedisConfig            `mapstructure:"redis"`
	Skills  map[string]SkillConfig `mapstructure:"skills"`
	Tracing TracingConfig          `mapstructure:"tracing"`
	Logging LoggingConfig          `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int        `mapstructure:"port"`
	ReadTimeout     int        `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int        `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int        `mapstructure:"shutdown_timeout"` // milliseconds
	MaxBodyBytes    int64      `mapstructure:"max_body_bytes"`
	CORS            CORSConfig `mapstructure:"cors"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Supported model providers.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderHTTP      = "http"
)

// GenAIConfig holds the model backend settings. The credential is the only
// process-wide shared resource of the gateway and is read-only after load.
type GenAIConfig struct {
	Provider   string `mapstructure:"provider"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds, per skill call
	MaxRetries int    `mapstructure:"max_retries"`
}

// IsConfigured reports whether live generation can be attempted. When false
// every skill answers with its fallback and no network call is made.
func (g GenAIConfig) IsConfigured() bool {
	if strings.TrimSpace(g.APIKey) == "" {
		return false
	}
	if g.Provider == ProviderHTTP && strings.TrimSpace(g.BaseURL) == "" {
		return false
	}
	return true
}

type RedisConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Address     string `mapstructure:"address"`
	Password    string `mapstructure:"password"`
	DB          int    `mapstructure:"db"`
	FallbackKey string `mapstructure:"fallback_key"`
}

// SkillConfig holds per-skill overrides. Zero values keep the skill's own
// definition.
type SkillConfig struct {
	Enabled         *bool    `mapstructure:"enabled"`
	Timeout         int      `mapstructure:"timeout"` // milliseconds
	Temperature     *float64 `mapstructure:"temperature"`
	MaxOutputTokens int      `mapstructure:"max_output_tokens"`
}

type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	ServiceName    string `mapstructure:"service_name"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
