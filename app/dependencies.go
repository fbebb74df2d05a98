package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/upb/tenant-services/config"
	"github.com/upb/tenant-services/internal/observability"
	"github.com/upb/tenant-services/services/inference"
	"github.com/upb/tenant-services/services/providers"
	"github.com/upb/tenant-services/services/providers/openai"
	"go.uber.org/zap"
)

// InfoDependencies holds everything the tenant info service needs.
type InfoDependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.RequestMetrics
}

// NewInfoDependencies wires the info service. Metrics live in a registry
// owned by this process; the default global registry is never touched.
func NewInfoDependencies(cfg *config.Config, logger *zap.Logger) (*InfoDependencies, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	deps := &InfoDependencies{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewRequestMetrics(cfg.Tenant, prometheus.NewRegistry()),
	}

	logger.Info("info dependencies initialized",
		zap.String("company", cfg.Tenant.Company),
		zap.String("industry", cfg.Tenant.Industry),
		zap.String("tenant", cfg.Tenant.TenantName))
	return deps, nil
}

// Close flushes buffered log entries
func (d *InfoDependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")
	_ = d.Logger.Sync()
	return nil
}

// GatewayDependencies holds everything the LLM gateway needs.
type GatewayDependencies struct {
	Config    *config.Config
	Logger    *zap.Logger
	Provider  providers.Provider
	Inference *inference.Service
}

// NewGatewayDependencies wires the gateway: provider registry, the
// configured backend's adapter and the inference service on top of it.
func NewGatewayDependencies(cfg *config.Config, logger *zap.Logger) (*GatewayDependencies, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	if err := cfg.ValidateGateway(); err != nil {
		return nil, fmt.Errorf("invalid gateway configuration: %w", err)
	}

	registry, err := NewProviderRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider registry: %w", err)
	}

	provider, err := registry.Build(cfg.Gateway.Backend, providers.ProviderConfig{
		APIKey:   cfg.Gateway.APIKey,
		Endpoint: cfg.Gateway.Endpoint,
		Timeout:  cfg.Gateway.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider: %w", err)
	}

	if !cfg.Gateway.APIKeyConfigured() {
		logger.Warn("upstream API key not configured, /infer will answer 500",
			zap.String("backend", cfg.Gateway.Backend))
	}

	deps := &GatewayDependencies{
		Config:    cfg,
		Logger:    logger,
		Provider:  provider,
		Inference: inference.NewService(provider, cfg.Gateway, logger),
	}

	logger.Info("gateway dependencies initialized",
		zap.String("backend", provider.Name()),
		zap.String("model", cfg.Gateway.Model))
	return deps, nil
}

// Close flushes buffered log entries
func (d *GatewayDependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")
	_ = d.Logger.Sync()
	return nil
}

// NewProviderRegistry returns a registry with every supported backend.
func NewProviderRegistry() (*providers.Registry, error) {
	registry := providers.NewRegistry()
	err := registry.Register(config.BackendOpenAI, func(pc providers.ProviderConfig) (providers.Provider, error) {
		return openai.NewOpenAIAdapter(pc), nil
	})
	if err != nil {
		return nil, err
	}
	return registry, nil
}
