package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bryanjohn05/SignSerenade/internal/capture"
	"github.com/bryanjohn05/SignSerenade/internal/landmark"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LandmarksHandler broadcasts real-time hand landmarks over WebSocket for
// the signing overlay.
type LandmarksHandler struct {
	detector  landmark.Detector
	session   *capture.Session
	clients   map[*websocket.Conn]bool
	mu        sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
}

// NewLandmarksHandler creates a LandmarksHandler over the given detector
// and session and starts its broadcast goroutine. Close stops the
// goroutine.
func NewLandmarksHandler(d landmark.Detector, s *capture.Session) *LandmarksHandler {
	h := &LandmarksHandler{
		detector: d,
		session:  s,
		clients:  make(map[*websocket.Conn]bool),
		done:     make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// Close stops the broadcast goroutine. Connected clients stay connected
// but receive no further frames. Safe to call more than once.
func (h *LandmarksHandler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LandmarksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep the connection alive by draining client messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast pushes landmark frames to all connected clients.
func (h *LandmarksHandler) broadcast() {
	ticker := time.NewTicker(66 * time.Millisecond) // ~15 FPS
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
		}

		h.mu.RLock()
		idle := len(h.clients) == 0
		h.mu.RUnlock()
		if idle || !h.session.Active() {
			continue
		}

		frame, err := h.session.Frame()
		if err != nil {
			continue
		}

		hands, err := h.detector.Detect(frame)
		frame.Close()
		if err != nil {
			continue
		}

		msg, _ := json.Marshal(map[string]any{
			"hands":     hands,
			"timestamp": time.Now().UnixMilli(),
		})

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
