package config

import (
	"path/filepath"
	"testing"

	"github.com/bryanjohn05/SignSerenade/internal/store"
)

func newTestSettings(t *testing.T) *store.SettingsRepository {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s.Settings()
}

func TestResolver_Default(t *testing.T) {
	r := NewResolver(newTestSettings(t))

	if got := r.BaseURL(); got != DefaultBackendURL {
		t.Errorf("BaseURL() = %q, want %q", got, DefaultBackendURL)
	}
}

func TestResolver_EnvFallback(t *testing.T) {
	t.Setenv(EnvBackendURL, "http://env-backend:9000")

	r := NewResolver(newTestSettings(t))

	if got := r.BaseURL(); got != "http://env-backend:9000" {
		t.Errorf("BaseURL() = %q, want env value", got)
	}
}

func TestResolver_OverrideWinsOverEnv(t *testing.T) {
	t.Setenv(EnvBackendURL, "http://env-backend:9000")

	r := NewResolver(newTestSettings(t))
	if err := r.SetOverride("http://user-backend:8000"); err != nil {
		t.Fatalf("SetOverride() error = %v", err)
	}

	if got := r.BaseURL(); got != "http://user-backend:8000" {
		t.Errorf("BaseURL() = %q, want override value", got)
	}
}

func TestResolver_OverrideTakesEffectImmediately(t *testing.T) {
	r := NewResolver(newTestSettings(t))

	if got := r.BaseURL(); got != DefaultBackendURL {
		t.Fatalf("BaseURL() = %q, want default before override", got)
	}

	// The URL is re-resolved on every access, so an override set after the
	// first read must be visible on the next one.
	if err := r.SetOverride("http://changed:8000"); err != nil {
		t.Fatalf("SetOverride() error = %v", err)
	}
	if got := r.BaseURL(); got != "http://changed:8000" {
		t.Errorf("BaseURL() = %q, want new override", got)
	}
}

func TestResolver_ClearOverride(t *testing.T) {
	r := NewResolver(newTestSettings(t))

	if err := r.SetOverride("http://user-backend:8000"); err != nil {
		t.Fatalf("SetOverride() error = %v", err)
	}
	if err := r.SetOverride(""); err != nil {
		t.Fatalf("SetOverride(\"\") error = %v", err)
	}

	if got := r.BaseURL(); got != DefaultBackendURL {
		t.Errorf("BaseURL() = %q, want default after clearing override", got)
	}
}

func TestResolver_NilSettings(t *testing.T) {
	r := NewResolver(nil)

	if got := r.BaseURL(); got != DefaultBackendURL {
		t.Errorf("BaseURL() = %q, want %q", got, DefaultBackendURL)
	}
	if err := r.SetOverride("http://x"); err != nil {
		t.Errorf("SetOverride() with nil settings error = %v", err)
	}
}
