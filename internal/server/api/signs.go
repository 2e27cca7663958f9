package api

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/bryanjohn05/SignSerenade/internal/backend"
	"github.com/bryanjohn05/SignSerenade/internal/signs"
)

// SignsHandler serves the translation, validation, quiz and vocabulary
// endpoints. The local index answers first; the inference backend is a
// fallback for words the index cannot resolve. Backend faults degrade to
// empty response shapes, never to 5xx.
type SignsHandler struct {
	index   *signs.Index
	backend *backend.Client

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSignsHandler creates a SignsHandler. backend may be nil, disabling
// the fallback path.
func NewSignsHandler(index *signs.Index, b *backend.Client) *SignsHandler {
	return &SignsHandler{
		index:   index,
		backend: b,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ServeHTTP routes by path.
func (h *SignsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/translate":
		h.translate(w, r)
	case "/api/validate":
		h.validate(w, r)
	case "/api/quiz":
		h.quiz(w, r)
	case "/api/avail-signs":
		h.availSigns(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

type translateRequest struct {
	Text string `json:"text"`
}

type videosResponse struct {
	Videos     []string `json:"videos"`
	Unresolved []string `json:"unresolved,omitempty"`
}

// translate handles POST /api/translate: text to an ordered video list.
func (h *SignsHandler) translate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}

	paths, unresolved := h.index.TranslateDetail(req.Text)
	if len(paths) == 0 && h.backend != nil {
		// Vocabulary miss: the backend may know signs the local index
		// does not.
		if videos, err := h.backend.Translate(r.Context(), req.Text); err == nil && len(videos) > 0 {
			paths, unresolved = videos, nil
		}
	}

	if paths == nil {
		paths = []string{}
	}
	writeJSON(w, http.StatusOK, videosResponse{Videos: paths, Unresolved: unresolved})
}

type validateRequest struct {
	Sign string `json:"sign"`
}

// validate handles POST /api/validate: one sign to its reference video.
func (h *SignsHandler) validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Sign == "" {
		writeError(w, http.StatusBadRequest, "Sign is required")
		return
	}

	videos := []string{}
	if path, ok := h.index.Resolve(req.Sign); ok {
		videos = append(videos, path)
	} else if h.backend != nil {
		if fromBackend, err := h.backend.Validate(r.Context(), req.Sign); err == nil {
			videos = append(videos, fromBackend...)
		}
	}

	writeJSON(w, http.StatusOK, videosResponse{Videos: videos})
}

// quiz handles GET /api/quiz. Failures collapse to the fixed empty shape
// so the client can always render the same structure.
func (h *SignsHandler) quiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	h.mu.Lock()
	quiz, ok := h.index.NewQuiz(h.rng)
	h.mu.Unlock()

	if !ok && h.backend != nil {
		if sign, videoPath, options, err := h.backend.Quiz(r.Context()); err == nil {
			quiz = signs.Quiz{Sign: sign, VideoPath: videoPath, Options: options}
			ok = true
		}
	}

	if !ok {
		quiz = signs.Quiz{Options: []string{}}
	}
	if quiz.Options == nil {
		quiz.Options = []string{}
	}
	writeJSON(w, http.StatusOK, quiz)
}

type availSignsResponse struct {
	Signs []string `json:"signs"`
}

// availSigns handles GET /api/avail-signs: the model vocabulary.
func (h *SignsHandler) availSigns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, availSignsResponse{Signs: signs.ModelActions})
}
