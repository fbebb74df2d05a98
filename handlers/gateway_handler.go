package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/upb/tenant-services/config"
	"github.com/upb/tenant-services/middleware"
	"github.com/upb/tenant-services/services/inference"
	"github.com/upb/tenant-services/utils"
	"go.uber.org/zap"
)

// ServiceName is reported by GET /info
const ServiceName = "LLM Gateway"

// MaxRequestBodyBytes caps the size of a POST /infer body
const MaxRequestBodyBytes = 1 << 20

// AvailableEndpoints lists the gateway routes reported by GET /info
var AvailableEndpoints = []string{"/health", "/infer", "/info"}

// InferenceService defines the interface for inference operations
type InferenceService interface {
	// Infer forwards one prompt to the upstream model
	Infer(ctx context.Context, req inference.Request) (*inference.Result, error)
}

// GatewayHealthResponse is the body of GET /health on the gateway
type GatewayHealthResponse struct {
	Status           string `json:"status"`
	Backend          string `json:"backend"`
	Model            string `json:"model"`
	APIKeyConfigured bool   `json:"api_key_configured"`
}

// GatewayInfoResponse is the body of GET /info
type GatewayInfoResponse struct {
	Service            string   `json:"service"`
	Backend            string   `json:"backend"`
	Model              string   `json:"model"`
	Endpoint           string   `json:"endpoint"`
	APIKeyConfigured   bool     `json:"api_key_configured"`
	AvailableEndpoints []string `json:"available_endpoints"`
}

// GatewayHandler handles the LLM gateway HTTP requests
type GatewayHandler struct {
	service InferenceService
	config  config.GatewayConfig
	logger  *zap.Logger
}

// NewGatewayHandler creates a new GatewayHandler
func NewGatewayHandler(service InferenceService, cfg config.GatewayConfig, logger *zap.Logger) *GatewayHandler {
	return &GatewayHandler{
		service: service,
		config:  cfg,
		logger:  logger,
	}
}

// HandleHealth handles GET /health
func (h *GatewayHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := GatewayHealthResponse{
		Status:           "healthy",
		Backend:          h.config.Backend,
		Model:            h.config.Model,
		APIKeyConfigured: h.config.APIKeyConfigured(),
	}

	if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("failed to write health response", zap.Error(err))
	}
}

// HandleInfo handles GET /info
func (h *GatewayHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	response := GatewayInfoResponse{
		Service:            ServiceName,
		Backend:            h.config.Backend,
		Model:              h.config.Model,
		Endpoint:           h.config.Endpoint,
		APIKeyConfigured:   h.config.APIKeyConfigured(),
		AvailableEndpoints: AvailableEndpoints,
	}

	if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("failed to write info response", zap.Error(err))
	}
}

// HandleInfer handles POST /infer
func (h *GatewayHandler) HandleInfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req inference.Request
	if err := decodeJSONBody(w, r, &req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	req.RequestID = requestID

	result, err := h.service.Infer(ctx, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("inference successful",
		zap.String("request_id", requestID),
		zap.String("tenant", result.Tenant),
		zap.String("model", result.Model))

	if err := utils.WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}

// decodeJSONBody decodes exactly one JSON value of at most MaxRequestBodyBytes
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

// HandleGatewayNotFound answers unknown gateway routes in JSON
func HandleGatewayNotFound(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteError(w, http.StatusNotFound, "endpoint not found", nil)
}

// HandleGatewayMethodNotAllowed answers known paths hit with the wrong method
func HandleGatewayMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
}

// compile-time check
var _ InferenceService = (*inference.Service)(nil)
