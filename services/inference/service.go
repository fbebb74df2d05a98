package inference

import (
	"context"
	"errors"
	"fmt"

	"github.com/upb/tenant-services/config"
	"github.com/upb/tenant-services/services"
	"github.com/upb/tenant-services/services/providers"
	"go.uber.org/zap"
)

// Service forwards inference requests to a single upstream provider.
type Service struct {
	provider providers.Provider
	config   config.GatewayConfig
	logger   *zap.Logger
}

// NewService creates a new inference service
func NewService(provider providers.Provider, cfg config.GatewayConfig, logger *zap.Logger) *Service {
	return &Service{
		provider: provider,
		config:   cfg,
		logger:   logger,
	}
}

// Infer validates req, composes the upstream chat request, calls the
// provider once and maps the outcome onto the domain error taxonomy.
func (s *Service) Infer(ctx context.Context, req Request) (*Result, error) {
	if req.Prompt == "" {
		return nil, services.NewDomainError(services.ErrorTypeValidation, services.ErrMissingPrompt.Message, nil)
	}

	systemPrompt := s.config.DefaultSystemPrompt
	if req.SystemPrompt != nil {
		systemPrompt = *req.SystemPrompt
	}
	maxTokens := s.config.DefaultMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	tenant := DefaultTenant
	if req.Tenant != nil {
		tenant = *req.Tenant
	}

	if !s.config.APIKeyConfigured() {
		return nil, services.NewDomainError(services.ErrorTypeConfiguration, s.backendLabel()+" API key not configured", nil).
			WithDetail("prompt", req.Prompt).
			WithDetail("system_prompt", systemPrompt).
			WithDetail("tenant", tenant)
	}

	chatReq := &providers.ChatRequest{
		Model: s.config.Model,
		Messages: []providers.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: s.config.Temperature,
		RequestID:   req.RequestID,
	}

	s.logger.Info("calling upstream",
		zap.String("tenant", tenant),
		zap.String("request_id", req.RequestID),
		zap.String("backend", s.provider.Name()),
		zap.String("model", s.config.Model))

	// Detached from the caller: the upstream exchange is bounded by the
	// provider's own timeout only.
	resp, err := s.provider.ChatCompletion(context.WithoutCancel(ctx), chatReq)
	if err != nil {
		return nil, s.mapProviderError(tenant, err)
	}

	content, ok := resp.Content()
	if !ok {
		return nil, services.WrapInternal("upstream returned no choices", nil)
	}

	s.logger.Info("upstream response received",
		zap.String("tenant", tenant),
		zap.String("request_id", req.RequestID),
		zap.Int("chars", len(content)),
		zap.Duration("latency", resp.Latency))

	return &Result{
		Prompt:       req.Prompt,
		SystemPrompt: systemPrompt,
		Response:     content,
		Tenant:       tenant,
		Model:        s.config.Model,
		Backend:      s.config.Backend,
	}, nil
}

func (s *Service) mapProviderError(tenant string, err error) error {
	var provErr *providers.ProviderError
	if !errors.As(err, &provErr) {
		s.logger.Error("upstream call failed", zap.String("tenant", tenant), zap.Error(err))
		return err
	}

	switch {
	case provErr.Timeout:
		s.logger.Warn("upstream timeout", zap.String("tenant", tenant), zap.Error(err))
		return services.NewDomainError(services.ErrorTypeTimeout, s.backendLabel()+" API timeout", err)

	case provErr.StatusCode != 0 && provErr.Code == providers.CodeUpstreamError:
		s.logger.Warn("upstream returned an error",
			zap.String("tenant", tenant),
			zap.Int("status", provErr.StatusCode),
			zap.String("body", provErr.Body))
		return services.WrapUpstream(fmt.Sprintf("%s API error: %d", s.backendLabel(), provErr.StatusCode), provErr)

	default:
		s.logger.Error("upstream call failed", zap.String("tenant", tenant), zap.Error(err))
		return err
	}
}

// backendLabel is the display name used in error messages.
func (s *Service) backendLabel() string {
	if s.config.Backend == config.BackendOpenAI {
		return "OpenAI"
	}
	return s.config.Backend
}
