package mcp

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const readinessTimeout = 5 * time.Second

// ReadinessCheck reports whether the server can process tool calls
type ReadinessCheck func(ctx context.Context) error

// WithReadinessCheck sets the check behind /healthz/readiness
func WithReadinessCheck(check ReadinessCheck) Option {
	return func(s *BizBridgeMCPServer) {
		s.readiness = check
	}
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}

// livenessCheck ensures that the server is up and responding
func (s *BizBridgeMCPServer) livenessCheck(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusOK, "UP")
}

// readinessCheck ensures that the server is up and that it is able to process
// requests against the API.
func (s *BizBridgeMCPServer) readinessCheck(w http.ResponseWriter, r *http.Request) {
	if s.readiness != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := s.readiness(ctx); err != nil {
			s.logger.Error("readiness check failed", zap.Error(err))
			writeStatus(w, http.StatusServiceUnavailable, "DOWN")

			return
		}
	}

	writeStatus(w, http.StatusOK, "UP")
}
