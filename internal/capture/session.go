package capture

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/bryanjohn05/SignSerenade/internal/store"
)

// Permission is the persisted camera permission state.
type Permission string

const (
	PermissionUnknown Permission = "unknown"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Readiness retry: after the device opens, poll for the first readable
// frame to tolerate warm-up races.
const (
	readinessAttempts = 5
	readinessDelay    = 100 * time.Millisecond
)

// ErrSessionInactive is returned when capturing from an inactive session.
var ErrSessionInactive = errors.New("capture session is not active")

// jpegQuality is the encode quality for captured frames.
const jpegQuality = 90

// Session owns one camera acquisition at a time. All camera lifecycle
// mutation is funneled through the session so the active and permission
// flags stay consistent with the device state. A recorded permission
// denial is sticky: it persists across restarts until explicitly reset.
type Session struct {
	camera   Camera
	settings *store.SettingsRepository

	mu         sync.Mutex
	active     bool
	permission Permission
	generation uint64
	lastError  string
}

// NewSession creates a Session over the given camera. settings may be nil,
// in which case permission state is not persisted.
func NewSession(camera Camera, settings *store.SettingsRepository) *Session {
	s := &Session{
		camera:     camera,
		permission: PermissionUnknown,
	}
	s.settings = settings
	if settings != nil {
		if saved, err := settings.Get(store.KeyCameraPermission); err == nil {
			if p := Permission(saved); p == PermissionGranted || p == PermissionDenied {
				s.permission = p
			}
		}
	}
	return s
}

// Start acquires the camera. Unless skipPermissionCheck is set, a
// persisted denial fails fast without touching the device. Returns whether
// the session became active; acquisition failures are recorded on the
// session, never propagated.
func (s *Session) Start(skipPermissionCheck bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Only one live acquisition at a time; a stale one is released first.
	if s.active {
		s.stopLocked()
	}

	if !skipPermissionCheck && s.permission == PermissionDenied {
		s.lastError = "camera permission denied"
		return false
	}

	if err := s.camera.Open(); err != nil {
		if isPermissionError(err) {
			s.setPermission(PermissionDenied)
			s.lastError = "camera permission denied"
		} else {
			s.lastError = "camera unavailable: " + err.Error()
		}
		log.Printf("Camera open failed: %v", err)
		s.active = false
		return false
	}

	if !s.waitForFirstFrame() {
		s.camera.Close()
		s.lastError = "camera produced no frames"
		s.active = false
		return false
	}

	s.setPermission(PermissionGranted)
	s.active = true
	s.lastError = ""
	return true
}

// waitForFirstFrame polls for a readable frame with bounded retry.
func (s *Session) waitForFirstFrame() bool {
	for attempt := 0; attempt < readinessAttempts; attempt++ {
		if frame, err := s.camera.ReadFrame(); err == nil {
			frame.Close()
			return true
		}
		time.Sleep(readinessDelay)
	}
	return false
}

// Stop releases the camera. Idempotent; persisted permission state is kept,
// transient state is cleared.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Session) stopLocked() {
	if err := s.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	s.active = false
	s.lastError = ""
	s.generation++
}

// Toggle stops the session if active, otherwise starts it, skipping the
// permission check when the last known state is granted.
func (s *Session) Toggle() bool {
	s.mu.Lock()
	active := s.active
	granted := s.permission == PermissionGranted
	s.mu.Unlock()

	if active {
		s.Stop()
		return false
	}
	return s.Start(granted)
}

// Active reports whether the session currently holds the camera.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Permission returns the current permission state.
func (s *Session) Permission() Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permission
}

// LastError returns the most recent user-visible acquisition error, or ""
// when the session is healthy.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Generation increments every time the session is stopped. Consumers use
// it to discard results that were in flight across a stop.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// ResetPermission clears the sticky permission state, allowing Start to
// attempt acquisition again after a denial.
func (s *Session) ResetPermission() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.permission = PermissionUnknown
	if s.settings != nil {
		if err := s.settings.Delete(store.KeyCameraPermission); err != nil {
			log.Printf("Failed to clear camera permission: %v", err)
		}
	}
}

// Frame reads one frame at native resolution. The caller must close the
// returned Mat.
func (s *Session) Frame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return nil, ErrSessionInactive
	}
	return s.camera.ReadFrame()
}

// CaptureJPEG snapshots the current frame and encodes it as JPEG.
func (s *Session) CaptureJPEG() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return nil, ErrSessionInactive
	}

	frame, err := s.camera.ReadFrame()
	if err != nil {
		return nil, err
	}
	defer frame.Close()

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, *frame,
		[]int{gocv.IMWriteJpegQuality, jpegQuality})
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	// The native buffer is freed on Close, so hand back a copy.
	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}

// setPermission records and persists a permission state. Caller holds the
// lock.
func (s *Session) setPermission(p Permission) {
	s.permission = p
	if s.settings != nil {
		if err := s.settings.Set(store.KeyCameraPermission, string(p)); err != nil {
			log.Printf("Failed to persist camera permission: %v", err)
		}
	}
}

// isPermissionError distinguishes an access denial from other device
// failures (missing device, busy device).
func isPermissionError(err error) bool {
	if errors.Is(err, fs.ErrPermission) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "permission denied") || strings.Contains(msg, "not authorized")
}
