package dashboard

import "github.com/go-chi/chi/v5"

// MountRoutes registers the dashboard endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Get("/dashboard/summary", h.handleSummary)
}
