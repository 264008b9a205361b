// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/moodcast/moodcast/internal/recommend"
	"github.com/moodcast/moodcast/internal/service"
)

func newTestService(t *testing.T, threshold time.Duration) *service.Service {
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
	return service.New(engine, learner, catalog, profiles, threshold, zerolog.Nop())
}

// dialTestStream spins up a hub, handler, and server, and dials one
// stream connection for the given user.
func dialTestStream(t *testing.T, svc *service.Service, userID string) *websocket.Conn {
	t.Helper()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = hub.RunWithContext(ctx) }()

	handler := NewHandler(hub, svc, testStreamConfig(), zerolog.Nop())
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?user_id=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestStreamEmotionRoundTrip(t *testing.T) {
	svc := newTestService(t, 0)
	conn := dialTestStream(t, svc, "u1")

	err := conn.WriteJSON(Message{Type: MessageTypeEmotion, Data: EmotionFrame{
		Emotion:   "happy",
		Intensity: 60,
		Valence:   0.5,
		Arousal:   0.3,
		Count:     5,
	}})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	msg := readMessage(t, conn)
	if msg.Type != MessageTypeRecommendations {
		t.Fatalf("message type = %q, want recommendations", msg.Type)
	}
	var result recommend.Result
	if err := remarshal(msg.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Items) == 0 {
		t.Error("expected items in stream result")
	}
}

func TestStreamThrottlesRepeatedReadings(t *testing.T) {
	svc := newTestService(t, time.Minute)
	conn := dialTestStream(t, svc, "u1")

	frame := Message{Type: MessageTypeEmotion, Data: EmotionFrame{Emotion: "sad", Intensity: 50}}
	if err := conn.WriteJSON(frame); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != MessageTypeRecommendations {
		t.Fatalf("first message type = %q, want recommendations", msg.Type)
	}

	if err := conn.WriteJSON(frame); err != nil {
		t.Fatalf("second write: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != MessageTypeThrottled {
		t.Fatalf("second message type = %q, want throttled", msg.Type)
	}
}

func TestStreamRejectsUnknownEmotion(t *testing.T) {
	svc := newTestService(t, 0)
	conn := dialTestStream(t, svc, "u1")

	err := conn.WriteJSON(Message{Type: MessageTypeEmotion, Data: EmotionFrame{Emotion: "wistful"}})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	msg := readMessage(t, conn)
	if msg.Type != MessageTypeError {
		t.Fatalf("message type = %q, want error", msg.Type)
	}
}

func TestStreamPingPong(t *testing.T) {
	svc := newTestService(t, 0)
	conn := dialTestStream(t, svc, "u1")

	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != MessageTypePong {
		t.Fatalf("message type = %q, want pong", msg.Type)
	}
}

func TestStreamRequiresUserID(t *testing.T) {
	hub := NewHub()
	handler := NewHandler(hub, nil, testStreamConfig(), zerolog.Nop())
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
