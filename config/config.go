package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultUpstreamEndpoint is the chat-completion endpoint used when OPENAI_ENDPOINT is unset
	DefaultUpstreamEndpoint = "https://api.openai.com/v1/chat/completions"

	// DefaultModel is the model used when OPENAI_MODEL is unset
	DefaultModel = "gpt-3.5-turbo"

	// BackendOpenAI identifies the upstream backend in responses
	BackendOpenAI = "openai"

	// MinTemperature and MaxTemperature bound OPENAI_TEMPERATURE
	MinTemperature = 0.0
	MaxTemperature = 2.0
)

// Config represents the complete process configuration.
// Both services load the same structure and read the sections they need.
type Config struct {
	Environment   string
	Server        ServerConfig
	Tenant        TenantConfig
	Gateway       GatewayConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// TenantConfig holds the tenant identity shown by the info service.
// It is read once at startup and never mutated.
type TenantConfig struct {
	Company    string
	Industry   string
	TenantName string
}

// GatewayConfig holds the upstream LLM configuration for the gateway service
type GatewayConfig struct {
	APIKey              string
	Endpoint            string
	Model               string
	Backend             string
	Timeout             time.Duration
	Temperature         float64
	DefaultSystemPrompt string
	DefaultMaxTokens    int
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	_ = godotenv.Load(".env")

	company := getEnv("COMPANY", "Unknown")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Tenant: TenantConfig{
			Company:    company,
			Industry:   getEnv("INDUSTRY", "Unknown"),
			TenantName: getEnv("TENANT_NAME", strings.ToLower(company)),
		},
		Gateway: GatewayConfig{
			APIKey:              getEnv("OPENAI_API_KEY", ""),
			Endpoint:            getEnv("OPENAI_ENDPOINT", DefaultUpstreamEndpoint),
			Model:               getEnv("OPENAI_MODEL", DefaultModel),
			Backend:             BackendOpenAI,
			Timeout:             getEnvAsDuration("OPENAI_TIMEOUT", 30*time.Second),
			Temperature:         getEnvAsFloat("OPENAI_TEMPERATURE", 0.7),
			DefaultSystemPrompt: getEnv("GATEWAY_DEFAULT_SYSTEM_PROMPT", "You are a helpful assistant."),
			DefaultMaxTokens:    getEnvAsInt("GATEWAY_DEFAULT_MAX_TOKENS", 256),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the sections every process reads: server and observability.
// Gateway settings are checked separately by ValidateGateway.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// ValidateGateway checks the upstream settings only the gateway uses
func (c *Config) ValidateGateway() error {
	u, err := url.Parse(c.Gateway.Endpoint)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("upstream endpoint must be an absolute http(s) URL: %q", c.Gateway.Endpoint)
	}
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive")
	}
	// a zero write timeout means unbounded
	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout <= c.Gateway.Timeout {
		return fmt.Errorf("server write timeout %s must exceed upstream timeout %s", c.Server.WriteTimeout, c.Gateway.Timeout)
	}
	if c.Gateway.Temperature < MinTemperature || c.Gateway.Temperature > MaxTemperature {
		return fmt.Errorf("upstream temperature %g out of range [%g, %g]", c.Gateway.Temperature, MinTemperature, MaxTemperature)
	}
	if c.Gateway.DefaultMaxTokens <= 0 {
		return fmt.Errorf("default max tokens must be positive")
	}

	return nil
}

// APIKeyConfigured reports whether an upstream credential is present
func (g *GatewayConfig) APIKeyConfigured() bool {
	return g.APIKey != ""
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 5000)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 5000
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
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
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
		return defaultValue
	}
	return value
}
