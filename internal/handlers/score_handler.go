package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"kelimeoyunu/internal/clock"
	"kelimeoyunu/internal/models"
	"kelimeoyunu/internal/repository"
	"kelimeoyunu/internal/validation"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	// Resubmissions of the same result within this window are dropped.
	dedupToleranceSeconds = 5.0
)

// ScoreHandler serves score submission and leaderboard queries.
type ScoreHandler struct {
	scores *repository.ScoreRepository
	clk    clock.Clock
}

func NewScoreHandler(scores *repository.ScoreRepository, clk clock.Clock) *ScoreHandler {
	return &ScoreHandler{scores: scores, clk: clk}
}

type submitScoreRequest struct {
	SessionID      string  `json:"session_id"`
	Name           string  `json:"name"`
	Score          int     `json:"score"`
	ElapsedSeconds int     `json:"elapsed_seconds"`
	Timestamp      float64 `json:"timestamp"`
	Fullname       string  `json:"fullname"`
	School         string  `json:"school"`
	ClassLevel     string  `json:"class_level"`
	Gender         string  `json:"gender"`
	AvatarID       string  `json:"avatar_id"`
}

// Submit handles POST /scores. Duplicate submissions (same session ID,
// or same name and score within 5 seconds) succeed without inserting,
// so a client retrying after a timeout never doubles a score.
func (h *ScoreHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "geçersiz istek gövdesi")
		return
	}
	if err := validation.ValidatePlayerName(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Score < 0 {
		writeError(w, http.StatusBadRequest, "geçersiz puan")
		return
	}
	if req.Timestamp == 0 {
		req.Timestamp = float64(h.clk.Now().UnixMilli()) / 1000
	}

	dup, err := h.scores.ExistsSession(req.SessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	if !dup {
		dup, err = h.scores.ExistsSimilar(req.Name, req.Score, req.Timestamp, dedupToleranceSeconds)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "sunucu hatası")
			return
		}
	}
	if dup {
		writeSuccess(w, http.StatusOK, "skor zaten kayıtlı", nil)
		return
	}

	rec := models.ScoreRecord{
		SessionID:      req.SessionID,
		Name:           req.Name,
		Score:          req.Score,
		ElapsedSeconds: req.ElapsedSeconds,
		Timestamp:      req.Timestamp,
		Fullname:       req.Fullname,
		School:         req.School,
		ClassLevel:     req.ClassLevel,
		Gender:         req.Gender,
		AvatarID:       req.AvatarID,
	}

	var userID *int64
	if claims := claimsFrom(r.Context()); claims != nil {
		userID = &claims.UserID
	}
	if _, err := h.scores.Insert(rec, userID); err != nil {
		writeError(w, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	writeSuccess(w, http.StatusCreated, "skor kaydedildi", nil)
}

// List handles GET /scores?period=daily|weekly|monthly|all&limit=N.
func (h *ScoreHandler) List(w http.ResponseWriter, r *http.Request) {
	window := models.ParseWindow(r.URL.Query().Get("period"))

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "geçersiz limit")
			return
		}
		limit = min(n, maxListLimit)
	}

	records, err := h.scores.TopSince(window.LowerBound(h.clk.Now()), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sunucu hatası")
		return
	}
	if records == nil {
		records = []models.ScoreRecord{}
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{
		"period": window.String(),
		"scores": records,
	})
}
