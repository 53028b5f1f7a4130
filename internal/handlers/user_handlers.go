package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/suflam/usersvc/internal/domain"
	"github.com/suflam/usersvc/internal/service"
)

// CreateUser handles user creation (admin only)
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	if err := service.Authorize(getActor(r), service.OpCreateUser, 0); err != nil {
		respondError(w, r, err)
		return
	}

	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	user, err := h.userService.Create(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// ListUsers handles listing all users (admin only)
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	if err := service.Authorize(getActor(r), service.OpListUsers, 0); err != nil {
		respondError(w, r, err)
		return
	}

	limit, offset := parsePagination(r)

	users, err := h.userService.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if users == nil {
		users = []domain.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUser handles reading a single user (self or admin)
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID", "INVALID_INPUT")
		return
	}

	// Existence is checked before ownership so a missing target reads as
	// 404 rather than 403 for everyone.
	user, err := h.userService.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := service.Authorize(getActor(r), service.OpReadUser, id); err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateUser handles partial updates of a user (admin only)
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID", "INVALID_INPUT")
		return
	}

	if err := service.Authorize(getActor(r), service.OpUpdateUser, id); err != nil {
		respondError(w, r, err)
		return
	}

	var req domain.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	user, err := h.userService.Update(r.Context(), id, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// DeleteUser handles hard-deleting a user (admin only)
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID", "INVALID_INPUT")
		return
	}

	if err := service.Authorize(getActor(r), service.OpDeleteUser, id); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"detail": "User deleted successfully",
	})
}

// Login handles credential authentication and token issuance
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	token, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, token)
}
