// Package backend is the HTTP client for the Python inference backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"
)

// Timeouts for backend operations.
const (
	// HealthTimeout bounds the health probe so a dead backend cannot hang
	// the UI.
	HealthTimeout = 3 * time.Second
	// DetectTimeout bounds a detection request. The capture loop depends
	// on this deadline to release its in-flight guard.
	DetectTimeout = 10 * time.Second
)

// Detection is one labeled, confidence-scored inference result.
type Detection struct {
	ClassID    int       `json:"class_id"`
	ClassName  string    `json:"class_name"`
	Confidence float64   `json:"confidence"`
	BBox       []float64 `json:"bbox,omitempty"`
}

// DetectResponse is the backend's answer to a detection request.
type DetectResponse struct {
	Success    bool        `json:"success"`
	Detections []Detection `json:"detections"`
	Error      string      `json:"error,omitempty"`
}

// HealthStatus reports whether the backend is reachable and its model is
// loaded.
type HealthStatus struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// Client talks to the inference backend. The base URL is resolved on every
// request so runtime overrides take effect without restarting.
type Client struct {
	baseURL func() string
	http    *http.Client
}

// NewClient creates a Client. baseURL is called once per request.
func NewClient(baseURL func() string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Detect submits a JPEG frame for sign detection. The request carries
// DetectTimeout unless the caller's context expires sooner.
func (c *Client) Detect(ctx context.Context, image []byte) (*DetectResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, DetectTimeout)
	defer cancel()

	body, contentType, err := multipartFile("image", "capture.jpg", image)
	if err != nil {
		return nil, err
	}

	var resp DetectResponse
	if err := c.postJSON(ctx, "/detect", contentType, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ClassifyAction submits a JPEG frame for whole-frame action
// classification. Returns "Unknown" when the backend reports no action.
func (c *Client) ClassifyAction(ctx context.Context, image []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, DetectTimeout)
	defer cancel()

	body, contentType, err := multipartFile("file", "capture.jpg", image)
	if err != nil {
		return "", err
	}

	var resp struct {
		Action string `json:"action"`
	}
	if err := c.postJSON(ctx, "/classify_action", contentType, body, &resp); err != nil {
		return "", err
	}
	if resp.Action == "" {
		return "Unknown", nil
	}
	return resp.Action, nil
}

// Health probes the backend health endpoint with a short deadline.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+"/health", nil)
	if err != nil {
		return HealthStatus{}, err
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return HealthStatus{}, err
	}
	defer resp.Body.Close()

	// The backend answers 503 with a JSON body while the model is absent;
	// that is still a well-formed health report.
	if !isJSON(resp) {
		return HealthStatus{}, fmt.Errorf("health: unexpected content type %q", resp.Header.Get("Content-Type"))
	}

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return HealthStatus{}, fmt.Errorf("health: decode response: %w", err)
	}
	return status, nil
}

// Translate asks the backend to translate text into sign video paths.
func (c *Client) Translate(ctx context.Context, text string) ([]string, error) {
	return c.postInputText(ctx, "/translate", text)
}

// Validate asks the backend for the reference video(s) of a single sign.
func (c *Client) Validate(ctx context.Context, sign string) ([]string, error) {
	return c.postInputText(ctx, "/validate", sign)
}

// Quiz fetches a server-generated quiz.
func (c *Client) Quiz(ctx context.Context) (sign, videoPath string, options []string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+"/quiz", nil)
	if err != nil {
		return "", "", nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", nil, fmt.Errorf("quiz: backend returned %d", resp.StatusCode)
	}
	if !isJSON(resp) {
		return "", "", nil, fmt.Errorf("quiz: unexpected content type %q", resp.Header.Get("Content-Type"))
	}

	var data struct {
		Sign        string   `json:"sign"`
		VideoPath   string   `json:"video_path"`
		QuizOptions []string `json:"quiz_options"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", "", nil, fmt.Errorf("quiz: decode response: %w", err)
	}
	return data.Sign, data.VideoPath, data.QuizOptions, nil
}

// postInputText posts a multipart "input_text" field and returns the
// backend's video list.
func (c *Client) postInputText(ctx context.Context, path, text string) ([]string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("input_text", text); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var resp struct {
		Videos []string `json:"videos"`
	}
	if err := c.postJSON(ctx, path, w.FormDataContentType(), &buf, &resp); err != nil {
		return nil, err
	}
	return resp.Videos, nil
}

// postJSON posts a body and decodes a JSON response into out. Non-200
// statuses and non-JSON bodies are errors; callers normalize them into
// their fallback shapes.
func (c *Client) postJSON(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: backend returned %d", path, resp.StatusCode)
	}
	if !isJSON(resp) {
		return fmt.Errorf("%s: unexpected content type %q", path, resp.Header.Get("Content-Type"))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", path, err)
	}
	return nil
}

// multipartFile builds a single-file multipart body.
func multipartFile(field, filename string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}

func isJSON(resp *http.Response) bool {
	return strings.Contains(resp.Header.Get("Content-Type"), "application/json")
}
