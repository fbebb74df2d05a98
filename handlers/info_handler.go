package handlers

import (
	"fmt"
	"net/http"

	"github.com/upb/tenant-services/config"
	"github.com/upb/tenant-services/utils"
	"go.uber.org/zap"
)

// InfoHandler serves the tenant info endpoints
type InfoHandler struct {
	tenant config.TenantConfig
	logger *zap.Logger
}

// NewInfoHandler creates a new InfoHandler
func NewInfoHandler(tenant config.TenantConfig, logger *zap.Logger) *InfoHandler {
	return &InfoHandler{
		tenant: tenant,
		logger: logger,
	}
}

// HandleHello handles GET /hello
func (h *InfoHandler) HandleHello(w http.ResponseWriter, r *http.Request) {
	body := fmt.Sprintf("Hello World %s, %s\n", h.tenant.Company, h.tenant.Industry)
	if err := utils.WriteText(w, http.StatusOK, body); err != nil {
		h.logger.Error("failed to write hello response", zap.Error(err))
	}
}

// HandleHealth handles GET /health
// Liveness only; the process has no downstream dependencies.
func (h *InfoHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := utils.WriteText(w, http.StatusOK, "OK\n"); err != nil {
		h.logger.Error("failed to write health response", zap.Error(err))
	}
}

// HandleNotFound answers unknown info routes in plain text
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteText(w, http.StatusNotFound, "404 page not found\n")
}
