package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/bryanjohn05/SignSerenade/internal/backend"
	"github.com/bryanjohn05/SignSerenade/internal/capture"
)

// maxUploadBytes bounds the detect proxy upload (8 MiB).
const maxUploadBytes = 8 << 20

// ModelHandler serves the model health probe, the one-shot detection
// proxy, and action classification for practice feedback.
type ModelHandler struct {
	backend *backend.Client
	session *capture.Session
}

// NewModelHandler creates a ModelHandler over the given backend client.
// session may be nil; classification then requires an uploaded frame.
func NewModelHandler(b *backend.Client, session *capture.Session) *ModelHandler {
	return &ModelHandler{backend: b, session: session}
}

// ServeHTTP routes by path.
func (h *ModelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/check-model":
		h.checkModel(w, r)
	case "/api/detect":
		h.detect(w, r)
	case "/api/classify":
		h.classify(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

type checkModelResponse struct {
	Loaded  bool   `json:"loaded"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// checkModel handles GET /api/check-model. An unreachable backend is a
// normal answer here, not a server error.
func (h *ModelHandler) checkModel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	status, err := h.backend.Health(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, checkModelResponse{
			Loaded:  false,
			Status:  "unreachable",
			Message: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, checkModelResponse{
		Loaded: status.ModelLoaded,
		Status: status.Status,
	})
}

// detect handles POST /api/detect: a multipart "image" field is forwarded
// to the backend and the detection result returned with a normalized
// error shape.
func (h *ModelHandler) detect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read image")
		return
	}

	resp, err := h.backend.Detect(r.Context(), data)
	if err != nil {
		writeJSON(w, http.StatusOK, backend.DetectResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

type classifyResponse struct {
	Action string `json:"action"`
}

// classify handles POST /api/classify: the frame in the multipart "file"
// field, or a live snapshot when none is uploaded, is classified as a
// whole-frame sign action.
func (h *ModelHandler) classify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	data, err := h.classifyInput(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	action, err := h.backend.ClassifyAction(r.Context(), data)
	if err != nil {
		// Same normalization the backend client applies to an empty answer
		writeJSON(w, http.StatusOK, classifyResponse{Action: "Unknown"})
		return
	}

	writeJSON(w, http.StatusOK, classifyResponse{Action: action})
}

// classifyInput reads the uploaded frame, falling back to a live capture.
func (h *ModelHandler) classifyInput(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		return io.ReadAll(file)
	}
	if h.session != nil && h.session.Active() {
		return h.session.CaptureJPEG()
	}
	return nil, errors.New("a frame upload or an active camera is required")
}
