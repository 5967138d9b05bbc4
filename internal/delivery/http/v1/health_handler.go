package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/paulobrigidofilho/orbishistorymaps-sub001/pkg/utils"
)

// HealthHandler reports liveness and the state of the configuration store.
type HealthHandler struct {
	store string
	ping  func(ctx context.Context) error
}

// NewHealthHandler takes the store driver name and an optional ping func.
func NewHealthHandler(store string, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{store: store, ping: ping}
}

// GET /health, GET /api/v1/health
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := "connected"
	code := http.StatusOK
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			status = "unavailable"
			code = http.StatusServiceUnavailable
		}
	}
	utils.WriteJSON(w, code, map[string]string{
		"status": http.StatusText(code),
		"store":  h.store,
		"db":     status,
	})
}
