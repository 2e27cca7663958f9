package server

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/bryanjohn05/SignSerenade/internal/capture"
)

func newActiveSession(t *testing.T) *capture.Session {
	t.Helper()

	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0),
		capture.DefaultHeight, capture.DefaultWidth, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { mat.Close() })

	camera := capture.NewMockCamera([]*gocv.Mat{&mat}, true)
	session := capture.NewSession(camera, nil)
	if !session.Start(false) {
		t.Fatalf("failed to start session: %s", session.LastError())
	}
	t.Cleanup(session.Stop)

	return session
}

func TestStreamHandler_InactiveSession(t *testing.T) {
	camera := capture.NewMockCamera(nil, false)
	session := capture.NewSession(camera, nil)
	h := NewStreamHandler(session)

	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestStreamHandler_ServesMJPEG(t *testing.T) {
	session := newActiveSession(t)

	ts := httptest.NewServer(NewStreamHandler(session))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "multipart/x-mixed-replace") {
		t.Fatalf("Content-Type = %s, want multipart/x-mixed-replace", ct)
	}

	// Read until the first frame header appears, then disconnect
	reader := bufio.NewReader(resp.Body)
	sawBoundary, sawJPEG := false, false
	for i := 0; i < 20 && !(sawBoundary && sawJPEG); i++ {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("stream read failed: %v", err)
		}
		if strings.HasPrefix(line, "--frame") {
			sawBoundary = true
		}
		if strings.Contains(line, "image/jpeg") {
			sawJPEG = true
		}
	}

	if !sawBoundary || !sawJPEG {
		t.Error("stream did not produce an MJPEG frame header")
	}
	cancel()
}
