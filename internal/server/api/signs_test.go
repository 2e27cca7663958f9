package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bryanjohn05/SignSerenade/internal/backend"
	"github.com/bryanjohn05/SignSerenade/internal/signs"
)

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeVideos(t *testing.T, rec *httptest.ResponseRecorder) videosResponse {
	t.Helper()

	var resp videosResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestSignsHandler_Translate(t *testing.T) {
	h := NewSignsHandler(signs.NewIndex(), nil)

	t.Run("resolves known words", func(t *testing.T) {
		rec := postJSON(t, h, "/api/translate", `{"text":"Hello You"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		resp := decodeVideos(t, rec)
		want := []string{"/signs/Hello.mp4", "/signs/You.mp4"}
		if len(resp.Videos) != 2 || resp.Videos[0] != want[0] || resp.Videos[1] != want[1] {
			t.Errorf("videos = %v, want %v", resp.Videos, want)
		}
	})

	t.Run("drops unknown words and reports them", func(t *testing.T) {
		rec := postJSON(t, h, "/api/translate", `{"text":"Hello Zzz"}`)

		resp := decodeVideos(t, rec)
		if len(resp.Videos) != 1 {
			t.Errorf("videos = %v, want one entry", resp.Videos)
		}
		if len(resp.Unresolved) != 1 || resp.Unresolved[0] != "Zzz" {
			t.Errorf("unresolved = %v, want [Zzz]", resp.Unresolved)
		}
	})

	t.Run("empty videos array for fully unknown text", func(t *testing.T) {
		rec := postJSON(t, h, "/api/translate", `{"text":"qqq zzz"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), `"videos":[]`) {
			t.Errorf("body = %s, want empty videos array", rec.Body.String())
		}
	})

	t.Run("requires text", func(t *testing.T) {
		rec := postJSON(t, h, "/api/translate", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		rec := postJSON(t, h, "/api/translate", `{`)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects GET", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/translate", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
		}
	})
}

func TestSignsHandler_TranslateBackendFallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"videos": []string{"/signs/Backend.mp4"}})
	}))
	defer ts.Close()

	client := backend.NewClient(func() string { return ts.URL })
	h := NewSignsHandler(signs.NewIndex(), client)

	// A word the local index cannot resolve falls through to the backend
	rec := postJSON(t, h, "/api/translate", `{"text":"zzzunknown"}`)

	resp := decodeVideos(t, rec)
	if len(resp.Videos) != 1 || resp.Videos[0] != "/signs/Backend.mp4" {
		t.Errorf("videos = %v, want backend fallback result", resp.Videos)
	}
}

func TestSignsHandler_Validate(t *testing.T) {
	h := NewSignsHandler(signs.NewIndex(), nil)

	t.Run("resolves a known sign", func(t *testing.T) {
		rec := postJSON(t, h, "/api/validate", `{"sign":"Hello"}`)

		resp := decodeVideos(t, rec)
		if len(resp.Videos) != 1 || resp.Videos[0] != "/signs/Hello.mp4" {
			t.Errorf("videos = %v, want [/signs/Hello.mp4]", resp.Videos)
		}
	})

	t.Run("synonym resolves to canonical video", func(t *testing.T) {
		rec := postJSON(t, h, "/api/validate", `{"sign":"hey"}`)

		resp := decodeVideos(t, rec)
		if len(resp.Videos) != 1 || resp.Videos[0] != "/signs/Hello.mp4" {
			t.Errorf("videos = %v, want [/signs/Hello.mp4]", resp.Videos)
		}
	})

	t.Run("unknown sign yields empty array", func(t *testing.T) {
		rec := postJSON(t, h, "/api/validate", `{"sign":"zzz"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), `"videos":[]`) {
			t.Errorf("body = %s, want empty videos array", rec.Body.String())
		}
	})

	t.Run("requires sign", func(t *testing.T) {
		rec := postJSON(t, h, "/api/validate", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestSignsHandler_Quiz(t *testing.T) {
	h := NewSignsHandler(signs.NewIndex(), nil)

	// The quiz is random; any valid response has four options containing
	// the correct sign, and a video path for it.
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/quiz", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		var quiz signs.Quiz
		if err := json.NewDecoder(rec.Body).Decode(&quiz); err != nil {
			t.Fatalf("failed to decode quiz: %v", err)
		}

		// Fixed empty shape is allowed when the drawn sign has no video
		if quiz.Sign == "" {
			if quiz.VideoPath != "" || len(quiz.Options) != 0 {
				t.Errorf("empty quiz must use the fixed shape, got %+v", quiz)
			}
			continue
		}

		if len(quiz.Options) != 4 {
			t.Fatalf("len(options) = %d, want 4", len(quiz.Options))
		}
		found := false
		for _, o := range quiz.Options {
			if o == quiz.Sign {
				found = true
			}
		}
		if !found {
			t.Errorf("options %v do not contain sign %q", quiz.Options, quiz.Sign)
		}
		if quiz.VideoPath == "" {
			t.Error("quiz has empty video path")
		}
	}
}

func TestSignsHandler_AvailSigns(t *testing.T) {
	h := NewSignsHandler(signs.NewIndex(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/avail-signs", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp availSignsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Signs) != len(signs.ModelActions) {
		t.Errorf("len(signs) = %d, want %d", len(resp.Signs), len(signs.ModelActions))
	}
}
