package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/creditwatch/backend/internal/external/bridge"
	"github.com/wonny/creditwatch/backend/pkg/logger"
)

// healthTimeout bounds the bridge probe so liveness stays cheap
const healthTimeout = 5 * time.Second

// BridgeChecker probes the upstream bridge (implemented by bridge.Client)
type BridgeChecker interface {
	Health(ctx context.Context) (*bridge.HealthStatus, error)
}

// HealthHandler reports service and bridge health
type HealthHandler struct {
	bridge BridgeChecker
	policy string
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker BridgeChecker, policy string, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		bridge: checker,
		policy: policy,
		logger: log,
	}
}

// Health returns service health including the bridge connection.
// The service itself is up even when the bridge is not, so this is always 200.
// GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := map[string]interface{}{
		"status":             "ok",
		"service":            "creditwatch-api",
		"color_policy":       h.policy,
		"bridge_connected":   false,
		"terminal_connected": false,
	}

	status, err := h.bridge.Health(ctx)
	if err != nil {
		h.logger.WithError(err).Debug("Bridge health check failed")
		resp["bridge_error"] = err.Error()
	} else {
		resp["bridge_connected"] = true
		resp["terminal_connected"] = status.BloombergConnected
	}

	respondJSON(w, http.StatusOK, resp)
}
