// Package server provides the HTTP API of the SignSerenade daemon.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bryanjohn05/SignSerenade/internal/backend"
	"github.com/bryanjohn05/SignSerenade/internal/capture"
	"github.com/bryanjohn05/SignSerenade/internal/config"
	"github.com/bryanjohn05/SignSerenade/internal/detect"
	"github.com/bryanjohn05/SignSerenade/internal/landmark"
	"github.com/bryanjohn05/SignSerenade/internal/server/api"
	"github.com/bryanjohn05/SignSerenade/internal/signs"
	"github.com/bryanjohn05/SignSerenade/internal/store"
)

// Config holds the server configuration. Nil components disable their
// routes.
type Config struct {
	StaticDir string
	VideoDir  string
	Store     *store.Store
	Session   *capture.Session
	Loop      *detect.Loop
	Backend   *backend.Client
	Index     *signs.Index
	Detector  landmark.Detector
	Resolver  *config.Resolver
}

// Server is the daemon's HTTP front end.
type Server struct {
	config    Config
	mux       *http.ServeMux
	start     time.Time
	landmarks *LandmarksHandler
}

// New creates a Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Index != nil {
		signsHandler := api.NewSignsHandler(s.config.Index, s.config.Backend)
		s.mux.Handle("/api/translate", signsHandler)
		s.mux.Handle("/api/validate", signsHandler)
		s.mux.Handle("/api/quiz", signsHandler)
		s.mux.Handle("/api/avail-signs", signsHandler)
	}

	if s.config.Backend != nil {
		modelHandler := api.NewModelHandler(s.config.Backend, s.config.Session)
		s.mux.Handle("/api/check-model", modelHandler)
		s.mux.Handle("/api/detect", modelHandler)
		s.mux.Handle("/api/classify", modelHandler)
	}

	if s.config.Session != nil && s.config.Loop != nil {
		detectorHandler := api.NewDetectorHandler(s.config.Session, s.config.Loop, s.settingsRepo())
		s.mux.Handle("/api/detector", detectorHandler)
		s.mux.Handle("/api/detector/", detectorHandler)
	}

	if s.config.Resolver != nil {
		s.mux.Handle("/api/settings", api.NewSettingsHandler(s.config.Resolver, s.settingsRepo()))
	}

	if s.config.Loop != nil {
		var detLog *store.DetectionRepository
		if s.config.Store != nil {
			detLog = s.config.Store.Detections()
		}
		s.mux.Handle("/api/history", api.NewHistoryHandler(s.config.Loop, detLog))
	}

	if s.config.Session != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Session))
	}

	if s.config.Session != nil && s.config.Detector != nil {
		s.landmarks = NewLandmarksHandler(s.config.Detector, s.config.Session)
		s.mux.Handle("/api/landmarks", s.landmarks)
	}

	// Sign videos referenced by the translate/quiz responses
	if s.config.VideoDir != "" {
		videos := http.FileServer(http.Dir(s.config.VideoDir))
		s.mux.Handle(signs.BasePath, http.StripPrefix(signs.BasePath, videos))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

func (s *Server) settingsRepo() *store.SettingsRepository {
	if s.config.Store == nil {
		return nil
	}
	return s.config.Store.Settings()
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close stops the background broadcast goroutine. The mux itself holds no
// other resources.
func (s *Server) Close() {
	if s.landmarks != nil {
		s.landmarks.Close()
	}
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
