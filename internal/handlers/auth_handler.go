package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"kelimeoyunu/internal/models"
	"kelimeoyunu/internal/repository"
	"kelimeoyunu/internal/security"
	"kelimeoyunu/internal/validation"
)

const tokenTTL = 24 * time.Hour

// AuthHandler serves account registration, login and password change.
type AuthHandler struct {
	users     *repository.UserRepository
	jwtSecret string
}

func NewAuthHandler(users *repository.UserRepository, jwtSecret string) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret}
}

type registerRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Fullname   string `json:"fullname"`
	BirthDate  string `json:"birth_date"`
	Gender     string `json:"gender"`
	School     string `json:"school"`
	ClassLevel string `json:"class_level"`
	AvatarID   string `json:"avatar_id"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "geçersiz istek gövdesi")
		return
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.users.GetByUsername(req.Username); err == nil {
		writeError(w, http.StatusConflict, "bu kullanıcı adı zaten alınmış")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "sunucu hatası")
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Fullname:     req.Fullname,
		BirthDate:    req.BirthDate,
		Gender:       req.Gender,
		School:       req.School,
		ClassLevel:   req.ClassLevel,
		AvatarID:     req.AvatarID,
	}
	id, err := h.users.Create(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	user.ID = id

	token, err := h.issueToken(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	writeSuccess(w, http.StatusCreated, "kayıt başarılı", map[string]any{
		"token": token,
		"user":  user,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "geçersiz istek gövdesi")
		return
	}

	user, err := h.users.GetByUsername(req.Username)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "kullanıcı adı veya şifre hatalı")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	if !security.CheckPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "kullanıcı adı veya şifre hatalı")
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	writeSuccess(w, http.StatusOK, "giriş başarılı", map[string]any{
		"token": token,
		"user":  user,
	})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword handles POST /auth/change-password. Requires auth.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "oturum geçersiz")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "geçersiz istek gövdesi")
		return
	}
	if err := validation.ValidatePassword(req.NewPassword); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.GetByID(claims.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "oturum geçersiz")
		return
	}
	if !security.CheckPassword(req.OldPassword, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "mevcut şifre hatalı")
		return
	}

	hash, err := security.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	if err := h.users.UpdatePassword(user.ID, hash); err != nil {
		writeError(w, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	writeSuccess(w, http.StatusOK, "şifre güncellendi", nil)
}

func (h *AuthHandler) issueToken(user *models.User) (string, error) {
	claims := tokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
