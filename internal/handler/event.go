package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bushra/buzzhub/internal/auth"
	"github.com/bushra/buzzhub/internal/model"
	"github.com/bushra/buzzhub/internal/service"
)

// EventHandler serves event CRUD and free event registrations.
type EventHandler struct {
	events *service.EventService
	logger *slog.Logger
}

func NewEventHandler(events *service.EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{events: events, logger: logger}
}

// HandleCreate handles POST /events; manager only.
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var event model.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	created, err := h.events.Create(r.Context(), &event, principal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleList handles GET /events; public.
func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// HandleGetByID handles GET /events/{id}; public.
func (h *EventHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// HandleUpdate handles PATCH /events/{id}; manager only, and only the
// event's own manager (ownership is checked in the service).
func (h *EventHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var event model.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	updated, err := h.events.Update(r.Context(), r.PathValue("id"), &event, principal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /events/{id}; manager only.
func (h *EventHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	if err := h.events.Delete(r.Context(), r.PathValue("id"), principal); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRegister handles POST /eventRegister; authenticated free
// registration for the caller.
func (h *EventHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req struct {
		EventID string `json:"eventId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	reg, err := h.events.Register(r.Context(), req.EventID, principal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}

// HandleRegistrations handles GET /eventRegister?email=; authenticated.
func (h *EventHandler) HandleRegistrations(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		email, _ = auth.PrincipalFromContext(r.Context())
	}

	regs, err := h.events.Registrations(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, regs)
}
