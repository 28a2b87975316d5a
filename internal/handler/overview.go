package handler

import (
	"log/slog"
	"net/http"

	"github.com/bushra/buzzhub/internal/auth"
	"github.com/bushra/buzzhub/internal/service"
)

// OverviewHandler serves the admin and manager dashboard aggregates.
type OverviewHandler struct {
	overview *service.OverviewService
	logger   *slog.Logger
}

func NewOverviewHandler(overview *service.OverviewService, logger *slog.Logger) *OverviewHandler {
	return &OverviewHandler{overview: overview, logger: logger}
}

// HandleAdmin handles GET /adminOverview; admin only.
func (h *OverviewHandler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	overview, err := h.overview.Admin(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// HandleManager handles GET /managerOverview?managerEmail=; manager only.
// With no explicit managerEmail the caller sees their own dashboard.
func (h *OverviewHandler) HandleManager(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("managerEmail")
	if email == "" {
		email, _ = auth.PrincipalFromContext(r.Context())
	}

	overview, err := h.overview.Manager(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
