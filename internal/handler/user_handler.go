package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"evidence-tracker/internal/service"
)

// UserHandler covers the admin-only directory management routes. Role
// enforcement happens in the router; these handlers assume an admin caller.
type UserHandler struct {
	service *service.AuthService
}

func NewUserHandler(service *service.AuthService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) List(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{"users": h.service.ListUsers()})
}

func (h *UserHandler) ListPending(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{"users": h.service.ListPendingUsers()})
}

func (h *UserHandler) Approve(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	user, err := h.service.Approve(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"message": "User approved successfully",
		"user":    user,
	})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	if err := h.service.Delete(userID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"message": "User deleted successfully"})
}
