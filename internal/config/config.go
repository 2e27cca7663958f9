// Package config resolves runtime configuration for the SignSerenade daemon.
package config

import (
	"os"

	"github.com/bryanjohn05/SignSerenade/internal/store"
)

const (
	// DefaultBackendURL is used when neither a stored override nor the
	// environment variable is set.
	DefaultBackendURL = "http://localhost:8000"
	// EnvBackendURL names the environment variable holding the inference
	// backend base URL.
	EnvBackendURL = "SIGNSERENADE_BACKEND_URL"
)

// Resolver resolves the inference backend base URL. Resolution happens on
// every call so a user-initiated override takes effect immediately, with
// no stale cached URL.
type Resolver struct {
	settings *store.SettingsRepository
}

// NewResolver creates a Resolver backed by the given settings repository.
// A nil repository is allowed; resolution then falls through to the
// environment and the default.
func NewResolver(settings *store.SettingsRepository) *Resolver {
	return &Resolver{settings: settings}
}

// BaseURL returns the backend base URL: stored override first, then the
// environment variable, then the default.
func (r *Resolver) BaseURL() string {
	if r.settings != nil {
		// Storage errors degrade to the fallbacks; the override is a
		// convenience, not a requirement.
		if url, err := r.settings.Get(store.KeyBackendURL); err == nil && url != "" {
			return url
		}
	}

	if url := os.Getenv(EnvBackendURL); url != "" {
		return url
	}

	return DefaultBackendURL
}

// SetOverride persists a backend URL override. An empty URL clears the
// override.
func (r *Resolver) SetOverride(url string) error {
	if r.settings == nil {
		return nil
	}
	if url == "" {
		return r.settings.Delete(store.KeyBackendURL)
	}
	return r.settings.Set(store.KeyBackendURL, url)
}
