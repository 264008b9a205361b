// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/moodcast/moodcast/internal/config"
	"github.com/moodcast/moodcast/internal/recommend"
	"github.com/moodcast/moodcast/internal/service"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	catalog := recommend.NewCatalog()
	if err := recommend.SeedSampleCatalog(catalog); err != nil {
		t.Fatalf("seed: %v", err)
	}
	profiles := recommend.NewProfileStore()
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), recommend.MustStrategyTable(),
		catalog, profiles, zerolog.Nop())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	learner := recommend.NewLearner(profiles, catalog, recommend.DefaultConfig().HistoryLimit, zerolog.Nop())
	svc := service.New(engine, learner, catalog, profiles, 0, zerolog.Nop())

	cfg := &config.Config{
		Security: config.SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   1000,
			RateLimitWindow: time.Minute,
		},
	}
	return NewRouter(svc, cfg, nil, nil, zerolog.Nop())
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Status != "success" {
		t.Errorf("envelope status = %q, want success", resp.Status)
	}
}

func TestEmotionUpdateEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/emotion", map[string]interface{}{
		"user_id":   "u1",
		"emotion":   "happy",
		"intensity": 60,
		"valence":   0.5,
		"arousal":   0.3,
		"count":     5,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if resp.Status != "success" {
		t.Fatalf("envelope status = %q, want success", resp.Status)
	}

	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("remarshal data: %v", err)
	}
	var decision service.EmotionDecision
	if err := json.Unmarshal(data, &decision); err != nil {
		t.Fatalf("decode decision: %v", err)
	}
	if decision.Throttled {
		t.Error("first update must not be throttled")
	}
	if decision.Result == nil || len(decision.Result.Items) == 0 {
		t.Error("expected recommendations in the decision")
	}
}

func TestEmotionUpdateRejectsUnknownLabel(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/emotion", map[string]interface{}{
		"user_id":   "u1",
		"emotion":   "melancholy",
		"intensity": 60,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != "UNKNOWN_EMOTION" {
		t.Errorf("error = %+v, want UNKNOWN_EMOTION", resp.Error)
	}
}

func TestEmotionUpdateRejectsMissingUserID(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/emotion", map[string]interface{}{
		"emotion":   "happy",
		"intensity": 60,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error = %+v, want VALIDATION_ERROR", resp.Error)
	}
}

func TestEmotionUpdateClampsOutOfRangeReadings(t *testing.T) {
	// Sensor noise pushes readings outside the documented ranges; the
	// ingest path clamps and serves rather than rejecting.
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/emotion", map[string]interface{}{
		"user_id":   "u1",
		"emotion":   "happy",
		"intensity": 250,
		"valence":   5.0,
		"arousal":   -3.0,
		"count":     3,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if resp.Status != "success" {
		t.Fatalf("envelope status = %q, want success", resp.Status)
	}

	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("remarshal data: %v", err)
	}
	var decision service.EmotionDecision
	if err := json.Unmarshal(data, &decision); err != nil {
		t.Fatalf("decode decision: %v", err)
	}
	if decision.Result == nil || len(decision.Result.Items) == 0 {
		t.Fatal("expected recommendations for a clamped reading")
	}
	// Intensity 250 clamps to 100, which lands in the high tier.
	if decision.Result.Metadata.IntensityTier != "high" {
		t.Errorf("tier = %q, want high after clamping", decision.Result.Metadata.IntensityTier)
	}
}

func TestRecommendEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/recommend", map[string]interface{}{
		"user_id":   "u1",
		"emotion":   "sad",
		"intensity": 80,
		"count":     3,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)

	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("remarshal data: %v", err)
	}
	var result recommend.Result
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Items) == 0 {
		t.Fatal("expected items")
	}
	if len(result.Items) > 3 {
		t.Errorf("got %d items, want at most 3", len(result.Items))
	}
	if result.Metadata.Emotion != "sad" {
		t.Errorf("metadata emotion = %q, want sad", result.Metadata.Emotion)
	}
}

func TestFeedbackEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/feedback", map[string]interface{}{
		"user_id":    "u1",
		"content_id": "v001",
		"type":       "like",
		"emotion":    "happy",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/feedback", map[string]interface{}{
		"user_id":    "u1",
		"content_id": "missing-video",
		"type":       "like",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %+v, want NOT_FOUND", resp.Error)
	}
}

func TestFeedbackRejectsUnknownType(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/feedback", map[string]interface{}{
		"user_id":    "u1",
		"content_id": "v001",
		"type":       "superlike",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != "UNKNOWN_FEEDBACK" {
		t.Errorf("error = %+v, want UNKNOWN_FEEDBACK", resp.Error)
	}
}

func TestProfileEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/profile/u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPut, "/api/v1/profile/u1/settings", map[string]interface{}{
		"adaptation_tier":      "fast",
		"diversity_preference": 0.8,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("settings status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)

	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("remarshal data: %v", err)
	}
	var profile recommend.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.DiversityPreference != 0.8 {
		t.Errorf("diversity = %v, want 0.8", profile.DiversityPreference)
	}
}

func TestSettingsRejectInvalidTier(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPut, "/api/v1/profile/u1/settings", map[string]interface{}{
		"adaptation_tier": "turbo",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != "INVALID_SETTINGS" {
		t.Errorf("error = %+v, want INVALID_SETTINGS", resp.Error)
	}
}

func TestContentEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/content", map[string]interface{}{
		"id":               "fresh1",
		"title":            "Sunset timelapse",
		"categories":       []string{"relaxing", "travel"},
		"duration_seconds": 95,
		"popularity":       0.4,
		"quality":          0.7,
		"valence":          0.5,
		"arousal":          -0.3,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201\nbody: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/content", map[string]interface{}{
		"id": "incomplete",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeEnvelope(t, rec)

	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("remarshal data: %v", err)
	}
	var status service.Status
	if err := json.Unmarshal(data, &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.CatalogRecords == 0 {
		t.Error("expected seeded catalog records in status")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set("X-Request-ID", "trace-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "trace-42" {
		t.Errorf("response request id = %q, want trace-42", got)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Metadata.RequestID != "trace-42" {
		t.Errorf("metadata request id = %q, want trace-42", resp.Metadata.RequestID)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
