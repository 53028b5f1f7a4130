package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/suflam/usersvc/internal/domain"
	"github.com/suflam/usersvc/internal/service"
	"github.com/suflam/usersvc/pkg/logger"
)

type contextKey string

const actorKey contextKey = "actor"

type Handlers struct {
	authService service.AuthService
	userService service.UserService
}

func New(authService service.AuthService, userService service.UserService) *Handlers {
	return &Handlers{
		authService: authService,
		userService: userService,
	}
}

func (h *Handlers) Routes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)
			r.Post("/", h.CreateUser)
			r.Get("/", h.ListUsers)
			r.Get("/{id}", h.GetUser)
			r.Patch("/{id}", h.UpdateUser)
			r.Delete("/{id}", h.DeleteUser)
		})
	})
}

// RequireAuth resolves the bearer token into a user and stores it on the
// request context. Token validity is recomputed on every request.
func (h *Handlers) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Missing or invalid authorization header", "UNAUTHORIZED")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		actor, err := h.authService.ResolveToken(r.Context(), token)
		if err != nil {
			respondError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), logger.UserIDKey, actor.ID)
		ctx = context.WithValue(ctx, actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Helper functions
func getActor(r *http.Request) *domain.User {
	if actor, ok := r.Context().Value(actorKey).(*domain.User); ok {
		return actor
	}
	return nil
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, message, code string) {
	response := map[string]string{
		"error": message,
		"code":  code,
	}
	writeJSON(w, statusCode, response)
}

// respondError maps domain errors onto the HTTP surface. The three token
// failures deliberately collapse into one 401 body so callers cannot probe
// token state; anything unrecognized becomes a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials", "UNAUTHORIZED")
	case errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusUnauthorized, "Invalid or expired token", "INVALID_TOKEN")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "Access forbidden", "FORBIDDEN")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found", "NOT_FOUND")
	case errors.Is(err, domain.ErrDuplicateResource):
		writeError(w, http.StatusBadRequest, "Duplicate cellnumber or email", "DUPLICATE_RESOURCE")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_INPUT")
	default:
		logger.ErrorContext(r.Context(), "Request failed", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
	}
}
