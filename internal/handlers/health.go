package handlers

import "net/http"

// HealthResponse reports liveness and which external capabilities are configured.
type HealthResponse struct {
	Status       string          `json:"status"`
	Capabilities map[string]bool `json:"capabilities"`
}

// NewHealthHandler returns a liveness handler that also reports capability
// configuration, so operators can see at a glance which fallbacks are active.
func NewHealthHandler(capabilities map[string]bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:       "ok",
			Capabilities: capabilities,
		})
	}
}
