package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bryanjohn05/SignSerenade/internal/capture"
	"github.com/bryanjohn05/SignSerenade/internal/detect"
	"github.com/bryanjohn05/SignSerenade/internal/store"
)

// DetectorHandler controls the capture session and the detection loop.
type DetectorHandler struct {
	session  *capture.Session
	loop     *detect.Loop
	settings *store.SettingsRepository
}

// NewDetectorHandler creates a DetectorHandler over the given session and
// loop. settings may be nil; interval changes are then not persisted.
func NewDetectorHandler(session *capture.Session, loop *detect.Loop, settings *store.SettingsRepository) *DetectorHandler {
	return &DetectorHandler{session: session, loop: loop, settings: settings}
}

type detectorStatus struct {
	Camera cameraStatus  `json:"camera"`
	Loop   detect.Status `json:"loop"`
}

type cameraStatus struct {
	Active     bool   `json:"active"`
	Permission string `json:"permission"`
	Error      string `json:"error,omitempty"`
}

// ServeHTTP routes status reads and control actions.
func (h *DetectorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := strings.TrimPrefix(r.URL.Path, "/api/detector")
	action = strings.TrimPrefix(action, "/")

	if action == "" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		writeJSON(w, http.StatusOK, h.status())
		return
	}

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	switch action {
	case "start":
		h.start(w)
	case "stop":
		h.stop(w)
	case "toggle":
		h.toggle(w)
	case "pause":
		h.loop.Pause()
		writeJSON(w, http.StatusOK, h.status())
	case "resume":
		h.loop.Resume()
		writeJSON(w, http.StatusOK, h.status())
	case "interval":
		h.setInterval(w, r)
	case "reset-permission":
		h.session.ResetPermission()
		writeJSON(w, http.StatusOK, h.status())
	default:
		writeError(w, http.StatusNotFound, "Unknown action")
	}
}

func (h *DetectorHandler) status() detectorStatus {
	return detectorStatus{
		Camera: cameraStatus{
			Active:     h.session.Active(),
			Permission: string(h.session.Permission()),
			Error:      h.session.LastError(),
		},
		Loop: h.loop.Status(),
	}
}

// start acquires the camera and begins the detection loop. A sticky
// permission denial surfaces as 403 with the reset hint in the status.
func (h *DetectorHandler) start(w http.ResponseWriter) {
	if !h.session.Start(false) {
		status := http.StatusConflict
		if h.session.Permission() == capture.PermissionDenied {
			status = http.StatusForbidden
		}
		writeJSON(w, status, h.status())
		return
	}

	h.loop.Start()
	writeJSON(w, http.StatusOK, h.status())
}

func (h *DetectorHandler) stop(w http.ResponseWriter) {
	h.loop.Stop()
	h.session.Stop()
	writeJSON(w, http.StatusOK, h.status())
}

func (h *DetectorHandler) toggle(w http.ResponseWriter) {
	if h.session.Active() {
		h.stop(w)
		return
	}
	h.start(w)
}

type intervalRequest struct {
	IntervalSeconds float64 `json:"interval_seconds"`
}

// setInterval reconfigures the capture period. Values outside the 1-10s
// range are rejected rather than clamped so the caller learns about the
// bounds.
func (h *DetectorHandler) setInterval(w http.ResponseWriter, r *http.Request) {
	var req intervalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	d := time.Duration(req.IntervalSeconds * float64(time.Second))
	if d < detect.MinInterval || d > detect.MaxInterval {
		writeError(w, http.StatusBadRequest, fmt.Sprintf(
			"Interval must be between %.0f and %.0f seconds",
			detect.MinInterval.Seconds(), detect.MaxInterval.Seconds()))
		return
	}

	h.loop.SetInterval(d)
	if h.settings != nil {
		// Best effort; the running loop is already reconfigured.
		h.settings.Set(store.KeyCaptureInterval,
			strconv.FormatFloat(req.IntervalSeconds, 'f', -1, 64))
	}
	writeJSON(w, http.StatusOK, h.status())
}
