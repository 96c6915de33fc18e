package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"kelimeoyunu/internal/models"
	"kelimeoyunu/internal/repository"
)

// AdminHandler serves the moderation endpoints. All routes are mounted
// behind RequireAdmin.
type AdminHandler struct {
	users  *repository.UserRepository
	scores *repository.ScoreRepository
}

func NewAdminHandler(users *repository.UserRepository, scores *repository.ScoreRepository) *AdminHandler {
	return &AdminHandler{users: users, scores: scores}
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"users": users})
}

// DeleteUser handles DELETE /admin/users/{id}. The user's scores go
// with the account.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "geçersiz kullanıcı id")
		return
	}
	if err := h.users.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "kullanıcı bulunamadı")
			return
		}
		writeError(w, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	writeSuccess(w, http.StatusOK, "kullanıcı silindi", nil)
}

// DeleteScore handles DELETE /admin/scores/{id}.
func (h *AdminHandler) DeleteScore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "geçersiz skor id")
		return
	}
	if err := h.scores.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "skor bulunamadı")
			return
		}
		writeError(w, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	writeSuccess(w, http.StatusOK, "skor silindi", nil)
}
