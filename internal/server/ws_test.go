package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bryanjohn05/SignSerenade/internal/landmark"
)

func TestLandmarksHandler_BroadcastsHands(t *testing.T) {
	session := newActiveSession(t)

	detector := landmark.NewMockDetector()
	detector.SetHands([]landmark.Hand{landmark.OpenPalmHand()})

	h := NewLandmarksHandler(detector, session)
	t.Cleanup(h.Close)

	ts := httptest.NewServer(h)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	var msg struct {
		Hands     []landmark.Hand `json:"hands"`
		Timestamp int64           `json:"timestamp"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("failed to read broadcast: %v", err)
	}

	if len(msg.Hands) != 1 {
		t.Fatalf("len(hands) = %d, want 1", len(msg.Hands))
	}
	if msg.Hands[0].Handedness != "Right" {
		t.Errorf("handedness = %s, want Right", msg.Hands[0].Handedness)
	}
	if msg.Timestamp == 0 {
		t.Error("broadcast has zero timestamp")
	}
}

func TestLandmarksHandler_CloseStopsBroadcast(t *testing.T) {
	session := newActiveSession(t)

	detector := landmark.NewMockDetector()
	detector.SetHands([]landmark.Hand{landmark.OpenPalmHand()})

	h := NewLandmarksHandler(detector, session)
	h.Close()
	h.Close() // idempotent

	ts := httptest.NewServer(h)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	// Several ticker periods with no frame delivered
	conn.SetReadDeadline(time.Now().Add(400 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("received a broadcast after Close")
	}
}

func TestLandmarksHandler_ClientUnregisteredOnClose(t *testing.T) {
	session := newActiveSession(t)

	detector := landmark.NewMockDetector()
	h := NewLandmarksHandler(detector, session)
	t.Cleanup(h.Close)

	ts := httptest.NewServer(h)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.RLock()
		n := len(h.clients)
		h.mu.RUnlock()
		if n == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("client still registered after close")
}
