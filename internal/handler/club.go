package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bushra/buzzhub/internal/auth"
	"github.com/bushra/buzzhub/internal/model"
	"github.com/bushra/buzzhub/internal/service"
)

// ClubHandler serves club CRUD and free club joins.
type ClubHandler struct {
	clubs  *service.ClubService
	logger *slog.Logger
}

func NewClubHandler(clubs *service.ClubService, logger *slog.Logger) *ClubHandler {
	return &ClubHandler{clubs: clubs, logger: logger}
}

// HandleCreate handles POST /clubs; manager only. The authenticated
// principal becomes the club's manager regardless of the request body.
func (h *ClubHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var club model.Club
	if err := json.NewDecoder(r.Body).Decode(&club); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	created, err := h.clubs.Create(r.Context(), &club, principal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleList handles GET /clubs; public.
func (h *ClubHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.clubs.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clubs)
}

// HandleGetByID handles GET /clubs/{id}; public.
func (h *ClubHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	club, err := h.clubs.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, club)
}

// HandleJoin handles POST /clubMembers; authenticated. Creates a free
// membership for the authenticated principal. Paid memberships go through
// /create-checkout-session instead.
func (h *ClubHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req struct {
		ClubID string `json:"clubId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	m, err := h.clubs.Join(r.Context(), req.ClubID, principal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// HandleMemberships handles GET /clubMembers?email=; authenticated. With no
// email filter it lists the caller's own memberships.
func (h *ClubHandler) HandleMemberships(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		email, _ = auth.PrincipalFromContext(r.Context())
	}

	memberships, err := h.clubs.Memberships(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, memberships)
}
