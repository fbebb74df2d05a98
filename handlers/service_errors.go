package handlers

import (
	"errors"
	"net/http"

	"github.com/upb/tenant-services/services"
	"github.com/upb/tenant-services/services/providers"
	"github.com/upb/tenant-services/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses.
// Every gateway error body is {"error": message} plus optional fields.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	message := services.GetErrorMessage(err)
	status := http.StatusInternalServerError
	var fields map[string]interface{}

	switch {
	case services.IsValidationError(err):
		status = http.StatusBadRequest

	case services.IsConfigurationError(err):
		// echo what the request would have sent upstream
		fields = services.GetErrorDetails(err)
		logger.Error("gateway not configured", zap.String("error", message))

	case services.IsTimeoutError(err):
		status = http.StatusGatewayTimeout

	case services.IsUpstreamError(err):
		var provErr *providers.ProviderError
		if errors.As(err, &provErr) && provErr.StatusCode != 0 {
			status = provErr.StatusCode
			fields = map[string]interface{}{"details": provErr.Body}
		} else {
			status = http.StatusBadGateway
		}

	case services.IsInternalError(err):
		logger.Error("internal server error", zap.Error(err))

	default:
		// Unknown error type: the description is surfaced as-is
		logger.Error("unhandled error type", zap.Error(err))
		message = err.Error()
	}

	if err := utils.WriteError(w, status, message, fields); err != nil {
		logger.Error("failed to write error response", zap.Error(err))
	}
}

// HandleValidationError handles validation errors from request parsing
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var validationErr *utils.ValidationError
	if !errors.As(err, &validationErr) {
		if err := utils.WriteBadRequest(w, err.Error(), nil); err != nil {
			logger.Error("failed to write validation error response", zap.Error(err))
		}
		return
	}

	if validationErr.HasFieldTag("prompt", "required") {
		HandleServiceError(w, services.ErrMissingPrompt, logger)
		return
	}

	details := make(map[string]interface{}, len(validationErr.Fields))
	for k, v := range validationErr.Fields {
		details[k] = v
	}
	if err := utils.WriteBadRequest(w, validationErr.Message, map[string]interface{}{"details": details}); err != nil {
		logger.Error("failed to write validation error response", zap.Error(err))
	}
}
