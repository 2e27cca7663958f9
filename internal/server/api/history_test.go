package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/bryanjohn05/SignSerenade/internal/detect"
	"github.com/bryanjohn05/SignSerenade/internal/store"
)

func newHistoryFixture(t *testing.T) (*HistoryHandler, *detect.Loop, *store.Store) {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	loop := detect.NewLoop(detect.Config{Frames: nil, Backend: noopSubmitter{}})

	return NewHistoryHandler(loop, s.Detections()), loop, s
}

func TestHistoryHandler_Get(t *testing.T) {
	h, loop, s := newHistoryFixture(t)

	loop.History().Append("Hello")
	loop.History().Append("You")

	if err := s.Detections().Create(&store.Detection{ID: "d1", Label: "Hello", Confidence: 0.9}); err != nil {
		t.Fatalf("failed to seed detection log: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp historyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.History) != 2 || resp.History[0] != "Hello" || resp.History[1] != "You" {
		t.Errorf("history = %v, want [Hello You]", resp.History)
	}
	if len(resp.Recent) != 1 || resp.Recent[0].Label != "Hello" {
		t.Errorf("recent = %v, want one Hello entry", resp.Recent)
	}
	if resp.Recent[0].DetectedAt == "" {
		t.Error("recent entry has empty timestamp")
	}
}

func TestHistoryHandler_GetEmpty(t *testing.T) {
	h, _, _ := newHistoryFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	// Arrays, never null
	body := rec.Body.String()
	var resp struct {
		History []string      `json:"history"`
		Recent  []interface{} `json:"recent"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.History == nil || resp.Recent == nil {
		t.Errorf("body = %s, want empty arrays", body)
	}
}

func TestHistoryHandler_Clear(t *testing.T) {
	h, loop, s := newHistoryFixture(t)

	loop.History().Append("Hello")
	if err := s.Detections().Create(&store.Detection{ID: "d1", Label: "Hello", Confidence: 0.9}); err != nil {
		t.Fatalf("failed to seed detection log: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/history", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	if loop.History().Len() != 0 {
		t.Error("history not cleared")
	}
	recent, err := s.Detections().Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("detection log has %d rows after clear, want 0", len(recent))
	}
}

func TestHistoryHandler_MethodValidation(t *testing.T) {
	h, _, _ := newHistoryFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/history", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
