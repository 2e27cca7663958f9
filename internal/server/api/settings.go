package api

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/bryanjohn05/SignSerenade/internal/config"
	"github.com/bryanjohn05/SignSerenade/internal/store"
)

// SettingsHandler reads and updates the persisted daemon settings: the
// inference backend URL override and the motion gate switch.
type SettingsHandler struct {
	resolver *config.Resolver
	settings *store.SettingsRepository
}

// NewSettingsHandler creates a SettingsHandler. settings may be nil; the
// motion gate toggle is then unavailable and reads report it off.
func NewSettingsHandler(resolver *config.Resolver, settings *store.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{resolver: resolver, settings: settings}
}

type settingsView struct {
	BackendURL string `json:"backend_url"`
	MotionGate bool   `json:"motion_gate"`
}

// Absent fields leave the corresponding setting untouched.
type settingsRequest struct {
	BackendURL *string `json:"backend_url"`
	MotionGate *bool   `json:"motion_gate"`
}

// ServeHTTP serves GET (current settings) and POST (partial update).
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.view())
	case http.MethodPost:
		h.update(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *SettingsHandler) view() settingsView {
	v := settingsView{BackendURL: h.resolver.BaseURL()}
	if h.settings != nil {
		raw, err := h.settings.Get(store.KeyMotionGate)
		v.MotionGate = err == nil && raw == "on"
	}
	return v
}

// update applies the fields present in the request. The backend URL
// override clears on an empty string, falling back to the environment and
// the default.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.BackendURL != nil {
		if *req.BackendURL != "" && !validBackendURL(*req.BackendURL) {
			writeError(w, http.StatusBadRequest, "Backend URL must be absolute http or https")
			return
		}
		if err := h.resolver.SetOverride(*req.BackendURL); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save backend URL")
			return
		}
	}

	if req.MotionGate != nil && h.settings != nil {
		var err error
		if *req.MotionGate {
			err = h.settings.Set(store.KeyMotionGate, "on")
		} else {
			err = h.settings.Delete(store.KeyMotionGate)
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save motion gate")
			return
		}
	}

	writeJSON(w, http.StatusOK, h.view())
}

func validBackendURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
