package dashboard

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/innkeeper-pms/innkeeper/internal/shared"
)

// Handler serves the dashboard HTTP endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the dashboard handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type summaryRequest struct {
	PropertyID string `validate:"required,max=64"`
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	req := summaryRequest{PropertyID: r.URL.Query().Get("property_id")}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "property_id is required"})
		return
	}

	ident := shared.IdentityFromContext(r.Context())
	summary, err := h.service.Summary(r.Context(), req.PropertyID, ident)
	if err != nil {
		h.logger.Error("dashboard summary",
			slog.String("property_id", req.PropertyID),
			slog.String("tenant_id", ident.Tenant()),
			slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
