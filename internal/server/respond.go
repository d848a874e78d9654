package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ateliernord/pudo-bridge/pkg/orders"
	"github.com/ateliernord/pudo-bridge/pkg/pudo"
	"github.com/ateliernord/pudo-bridge/pkg/shipment"
	"github.com/ateliernord/pudo-bridge/pkg/spring"
	"go.uber.org/zap"
)

// errorResponse is the JSON envelope for every failed request.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError translates component errors into status codes: validation
// failures are the client's fault, aggregator and order-platform
// failures are upstream, anything else is internal.
func (h *Handlers) writeError(w http.ResponseWriter, endpoint string, err error) int {
	status := http.StatusInternalServerError
	message := err.Error()

	var apiErr *spring.APIError
	switch {
	case shipment.IsValidation(err),
		errors.Is(err, pudo.ErrCountryRequired),
		errors.Is(err, pudo.ErrCountryUnsupported),
		errors.Is(err, pudo.ErrCityRequired):
		status = http.StatusBadRequest

	case errors.As(err, &apiErr):
		status = http.StatusBadGateway
		h.Metrics.RecordAggregatorError(apiErr.Command, errorType(apiErr))

	case errors.Is(err, orders.ErrNotFound),
		errors.Is(err, orders.ErrNotConfigured):
		status = http.StatusBadGateway

	default:
		h.Logger.Error("Unexpected error", zap.String("endpoint", endpoint), zap.Error(err))
		message = "internal server error"
	}

	if status != http.StatusInternalServerError {
		h.Logger.Warn("Request failed",
			zap.String("endpoint", endpoint),
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	h.writeJSON(w, status, errorResponse{Success: false, Error: message})
	return status
}

func errorType(err *spring.APIError) string {
	if err.StatusCode != 0 {
		return "http"
	}
	return "error_level"
}
