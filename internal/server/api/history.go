package api

import (
	"net/http"
	"time"

	"github.com/bryanjohn05/SignSerenade/internal/detect"
	"github.com/bryanjohn05/SignSerenade/internal/store"
)

// HistoryHandler serves the rolling detection history plus the persisted
// recent-detection log.
type HistoryHandler struct {
	loop *detect.Loop
	log  *store.DetectionRepository
}

// NewHistoryHandler creates a HistoryHandler. log may be nil when no
// store is configured.
func NewHistoryHandler(loop *detect.Loop, log *store.DetectionRepository) *HistoryHandler {
	return &HistoryHandler{loop: loop, log: log}
}

type loggedDetection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	DetectedAt string  `json:"detected_at"`
}

type historyResponse struct {
	History []string          `json:"history"`
	Recent  []loggedDetection `json:"recent"`
}

// ServeHTTP returns the history on GET and clears it on DELETE.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodDelete:
		h.clear(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *HistoryHandler) get(w http.ResponseWriter, r *http.Request) {
	response := historyResponse{
		History: h.loop.History().Labels(),
		Recent:  []loggedDetection{},
	}

	if h.log != nil {
		recent, err := h.log.Recent(0)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to read detection log")
			return
		}
		for _, d := range recent {
			response.Recent = append(response.Recent, loggedDetection{
				Label:      d.Label,
				Confidence: d.Confidence,
				DetectedAt: d.CreatedAt.Format(time.RFC3339),
			})
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *HistoryHandler) clear(w http.ResponseWriter, r *http.Request) {
	h.loop.History().Clear()
	if h.log != nil {
		if err := h.log.Clear(); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to clear detection log")
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
