// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/moodcast/moodcast/internal/recommend"
	"github.com/moodcast/moodcast/internal/service"
)

// Announcer notifies stream clients of catalog changes.
type Announcer interface {
	AnnounceContent(contentID, title string)
}

// Handler serves the REST API on top of the orchestration service.
type Handler struct {
	svc       *service.Service
	announcer Announcer
	logger    zerolog.Logger
}

// NewHandler creates the API handler set. The announcer may be nil.
func NewHandler(svc *service.Service, announcer Announcer, logger zerolog.Logger) *Handler {
	return &Handler{
		svc:       svc,
		announcer: announcer,
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

// emotionUpdateRequest is one ingested emotion reading. Intensity and
// the valence/arousal pair are accepted as-is; out-of-range values are
// clamped downstream, never rejected, so a noisy sensor cannot break
// the ingest loop.
type emotionUpdateRequest struct {
	UserID    string  `json:"user_id" validate:"required,max=128"`
	Emotion   string  `json:"emotion" validate:"required"`
	Intensity float64 `json:"intensity"`
	Valence   float64 `json:"valence"`
	Arousal   float64 `json:"arousal"`
	Count     int     `json:"count" validate:"gte=0,lte=50"`
}

// recommendRequest asks for a batch directly, without touching the
// update throttle.
type recommendRequest struct {
	emotionUpdateRequest
	MinIntensity float64 `json:"min_intensity" validate:"gte=0,lte=100"`
}

// feedbackRequest is one viewer interaction with a recommended video.
type feedbackRequest struct {
	UserID    string `json:"user_id" validate:"required,max=128"`
	ContentID string `json:"content_id" validate:"required,max=128"`
	Type      string `json:"type" validate:"required"`
	Emotion   string `json:"emotion,omitempty"`
}

// contentRequest indexes one video into the catalog.
type contentRequest struct {
	ID              string    `json:"id" validate:"required,max=128"`
	Title           string    `json:"title" validate:"required,max=512"`
	Categories      []string  `json:"categories" validate:"required,min=1,dive,required"`
	DurationSeconds float64   `json:"duration_seconds" validate:"gt=0"`
	Popularity      float64   `json:"popularity" validate:"gte=0,lte=1"`
	Quality         float64   `json:"quality" validate:"gte=0,lte=1"`
	Valence         float64   `json:"valence" validate:"gte=-1,lte=1"`
	Arousal         float64   `json:"arousal" validate:"gte=-1,lte=1"`
	UploadTime      time.Time `json:"upload_time,omitempty"`
	ViewCount       int64     `json:"view_count,omitempty" validate:"gte=0"`
}

// handleEmotionUpdate ingests a reading and returns the throttle
// decision, with a fresh batch when one was produced.
func (h *Handler) handleEmotionUpdate(w http.ResponseWriter, r *http.Request) {
	var req emotionUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	state, apiErr := req.state()
	if apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	decision, err := h.svc.ProcessEmotionUpdate(r.Context(), req.UserID, state, req.Count, "http")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, decision)
}

// handleRecommend produces a batch for an explicit emotional state.
func (h *Handler) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	state, apiErr := req.state()
	if apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	result, err := h.svc.Recommend(r.Context(), recommend.Request{
		UserID:       req.UserID,
		State:        state,
		Count:        req.Count,
		MinIntensity: req.MinIntensity,
		RequestID:    requestIDFrom(r),
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, result)
}

// handleFeedback folds one interaction into the user's profile.
func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	fbType, err := recommend.ParseFeedbackType(req.Type)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "UNKNOWN_FEEDBACK", "Unknown feedback type", err)
		return
	}

	fb := recommend.Feedback{
		UserID:    req.UserID,
		ContentID: req.ContentID,
		Type:      fbType,
	}
	if req.Emotion != "" {
		label, err := recommend.ParseEmotionLabel(req.Emotion)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "UNKNOWN_EMOTION", "Unknown emotion label", err)
			return
		}
		fb.Emotion = label
		fb.EmotionSet = true
	}

	if err := h.svc.ApplyFeedback(r.Context(), fb); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, map[string]string{"result": "recorded"})
}

// handleProfile returns the learned profile for one user. Profiles are
// created lazily, so an unseen user gets a fresh default profile.
func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Missing user id", nil)
		return
	}
	respondSuccess(w, r, http.StatusOK, h.svc.Profile(userID))
}

// handleUpdateSettings applies a partial settings update to a profile.
func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Missing user id", nil)
		return
	}

	var settings service.Settings
	if err := decodeJSON(r, &settings); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", err)
		return
	}

	if err := h.svc.UpdateSettings(userID, settings); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, h.svc.Profile(userID))
}

// handleUpsertContent indexes or replaces one catalog record.
func (h *Handler) handleUpsertContent(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	categories := make([]recommend.Category, len(req.Categories))
	for i, c := range req.Categories {
		categories[i] = recommend.Category(c)
	}

	err := h.svc.UpsertContent(recommend.ContentRecord{
		ID:           req.ID,
		Title:        req.Title,
		Categories:   categories,
		Duration:     time.Duration(req.DurationSeconds * float64(time.Second)),
		Popularity:   req.Popularity,
		Quality:      req.Quality,
		EmotionalFit: recommend.VAPoint{Valence: req.Valence, Arousal: req.Arousal},
		UploadTime:   req.UploadTime,
		ViewCount:    req.ViewCount,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if h.announcer != nil {
		h.announcer.AnnounceContent(req.ID, req.Title)
	}
	respondSuccess(w, r, http.StatusCreated, map[string]string{"id": req.ID})
}

// handleStatus reports the operational snapshot.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, h.svc.Status())
}

// handleHealth is the liveness probe.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// state converts the request fields to a clamped emotional state.
func (req *emotionUpdateRequest) state() (recommend.EmotionalState, *APIError) {
	label, err := recommend.ParseEmotionLabel(req.Emotion)
	if err != nil {
		return recommend.EmotionalState{}, &APIError{
			Code:    "UNKNOWN_EMOTION",
			Message: "Unknown emotion label: " + req.Emotion,
		}
	}
	return recommend.EmotionalState{
		Label:     label,
		Intensity: req.Intensity,
		VA:        recommend.VAPoint{Valence: req.Valence, Arousal: req.Arousal},
		Timestamp: time.Now(),
	}, nil
}

// respondServiceError maps domain errors to HTTP status codes.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrUnknownEmotionLabel):
		respondError(w, r, http.StatusBadRequest, "UNKNOWN_EMOTION", "Unknown emotion label", err)
	case errors.Is(err, recommend.ErrUnknownFeedbackType):
		respondError(w, r, http.StatusBadRequest, "UNKNOWN_FEEDBACK", "Unknown feedback type", err)
	case errors.Is(err, recommend.ErrUnknownContent):
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Content not found", err)
	case errors.Is(err, recommend.ErrEmptyCatalog):
		respondError(w, r, http.StatusConflict, "EMPTY_CATALOG", "No content indexed yet", err)
	case errors.Is(err, recommend.ErrInvalidContent):
		respondError(w, r, http.StatusBadRequest, "INVALID_CONTENT", "Invalid content record", err)
	case errors.Is(err, recommend.ErrInvalidProfileConfig):
		respondError(w, r, http.StatusBadRequest, "INVALID_SETTINGS", "Invalid profile settings", err)
	default:
		h.logger.Error().Err(err).Msg("unhandled service error")
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err)
	}
}
