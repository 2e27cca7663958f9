package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bryanjohn05/SignSerenade/internal/capture"
)

// StreamHandler serves an MJPEG preview of the capture session.
type StreamHandler struct {
	session *capture.Session
}

// NewStreamHandler creates a StreamHandler over the given session.
func NewStreamHandler(session *capture.Session) *StreamHandler {
	return &StreamHandler{session: session}
}

// ServeHTTP streams MJPEG frames until the client disconnects or the
// session goes inactive.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.session.Active() {
		http.Error(w, "Camera is not active", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		data, err := h.session.CaptureJPEG()
		if err != nil {
			if err == capture.ErrSessionInactive {
				return
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data))
		w.Write(data)
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(66 * time.Millisecond) // ~15 FPS
	}
}
