package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bushra/buzzhub/internal/model"
	"github.com/bushra/buzzhub/internal/service"
)

// UserHandler serves account registration, listing, and role endpoints.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleRegister handles POST /users; public self-registration.
// Registration is upsert-if-absent: registering an existing email returns
// 200 with a message instead of an error, so the client's sign-in flow can
// always POST first and ask questions later.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var user model.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		h.logger.Warn("invalid user JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	// Role assignment never comes from the registration body.
	user.Role = model.RoleUnset

	created, err := h.users.Register(r.Context(), &user)
	if err != nil {
		writeError(w, err)
		return
	}
	if !created {
		writeJSON(w, http.StatusOK, MessageResponse{Message: "User exists in database."})
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleList handles GET /users?email=; authenticated.
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleRole handles GET /users/{email}/role; authenticated.
// An unknown email returns {"role":""} rather than 404: the frontend probes
// this on every sign-in, before the user document necessarily exists, and an
// absent record simply means no privileges yet.
func (h *UserHandler) HandleRole(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	if email == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "email is required"})
		return
	}

	role, err := h.users.RoleOf(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]model.Role{"role": role})
}

// HandleChangeRole handles PATCH /users; authenticated. Body: {email, role}.
func (h *UserHandler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	if err := h.users.ChangeRole(r.Context(), req.Email, req.Role); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "role updated"})
}
