package detect

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bryanjohn05/SignSerenade/internal/backend"
	"github.com/bryanjohn05/SignSerenade/internal/store"
)

// Capture interval bounds. SetInterval clamps into this range.
const (
	MinInterval     = 1 * time.Second
	MaxInterval     = 10 * time.Second
	DefaultInterval = 4 * time.Second
)

// FrameSource provides JPEG snapshots of the live camera. capture.Session
// implements it.
type FrameSource interface {
	CaptureJPEG() ([]byte, error)
	Active() bool
	Generation() uint64
}

// Submitter sends a frame to the inference backend. backend.Client
// implements it.
type Submitter interface {
	Detect(ctx context.Context, image []byte) (*backend.DetectResponse, error)
}

// Update is pushed to subscribers after every completed detection cycle.
type Update struct {
	Detections []backend.Detection
	Top        string
	History    []string
	Err        string
}

// Status is a snapshot of the loop state.
type Status struct {
	Running    bool                `json:"running"`
	Paused     bool                `json:"paused"`
	Processing bool                `json:"processing"`
	Interval   float64             `json:"interval_seconds"`
	Current    []backend.Detection `json:"detections"`
	Last       string              `json:"last_detected"`
	History    []string            `json:"history"`
	LastError  string              `json:"error,omitempty"`
}

// Config wires a Loop.
type Config struct {
	Frames  FrameSource
	Backend Submitter
	// Log, when set, records every confirmed history entry.
	Log *store.DetectionRepository
	// Gate, when set, is consulted with the encoded frame before
	// submission; returning false skips the tick. Used for motion gating.
	Gate func(jpeg []byte) bool
	// Interval is clamped into [MinInterval, MaxInterval]; zero means
	// DefaultInterval.
	Interval time.Duration
}

// Loop periodically snapshots the camera, submits the frame for detection,
// and reconciles the asynchronous result into the rolling history. At most
// one detection request is in flight per loop; ticks during a flight are
// dropped, never queued.
type Loop struct {
	cfg     Config
	history *History

	mu         sync.Mutex
	running    bool
	paused     bool
	processing bool
	interval   time.Duration
	current    []backend.Detection
	last       string
	lastError  string

	stopCh    chan struct{}
	restartCh chan time.Duration

	subscribers map[int]func(Update)
	nextSubID   int
}

// NewLoop creates a Loop. Call Start to begin ticking.
func NewLoop(cfg Config) *Loop {
	return &Loop{
		cfg:         cfg,
		history:     NewHistory(),
		interval:    clampInterval(cfg.Interval),
		subscribers: make(map[int]func(Update)),
	}
}

func clampInterval(d time.Duration) time.Duration {
	if d == 0 {
		return DefaultInterval
	}
	if d < MinInterval {
		return MinInterval
	}
	if d > MaxInterval {
		return MaxInterval
	}
	return d
}

// Start begins the capture cycle. Starting a running loop is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return
	}
	l.running = true
	l.stopCh = make(chan struct{})
	l.restartCh = make(chan time.Duration, 1)
	go l.run(l.stopCh, l.restartCh, l.interval)
}

// Stop cancels the ticker synchronously. An in-flight request is not
// aborted; its response is discarded on arrival.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}
	l.running = false
	close(l.stopCh)
	l.current = nil
	l.last = ""
	l.lastError = ""
}

// Pause suspends ticking without releasing anything; the camera stream
// stays open. Used when the consuming UI is hidden.
func (l *Loop) Pause() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paused = true
}

// Resume re-enables ticking after Pause.
func (l *Loop) Resume() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paused = false
}

// SetInterval reconfigures the capture period. The ticker restarts with
// the new period; the phase of an in-flight cycle is not adjusted.
func (l *Loop) SetInterval(d time.Duration) time.Duration {
	d = clampInterval(d)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.interval = d
	if l.running {
		// Replace any pending restart with the newest period
		select {
		case <-l.restartCh:
		default:
		}
		l.restartCh <- d
	}
	return d
}

// Interval returns the current capture period.
func (l *Loop) Interval() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.interval
}

// History returns the loop's detection history.
func (l *Loop) History() *History {
	return l.history
}

// Subscribe registers an observer for detection updates and returns its
// unsubscribe function.
func (l *Loop) Subscribe(fn func(Update)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextSubID
	l.nextSubID++
	l.subscribers[id] = fn

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subscribers, id)
	}
}

// Status returns a snapshot of the loop state.
func (l *Loop) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := make([]backend.Detection, len(l.current))
	copy(current, l.current)

	return Status{
		Running:    l.running,
		Paused:     l.paused,
		Processing: l.processing,
		Interval:   l.interval.Seconds(),
		Current:    current,
		Last:       l.last,
		History:    l.history.Labels(),
		LastError:  l.lastError,
	}
}

// run is the ticker goroutine. It owns the timer; interval changes arrive
// over restartCh.
func (l *Loop) run(stopCh <-chan struct{}, restartCh <-chan time.Duration, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case d := <-restartCh:
			ticker.Reset(d)
		case <-ticker.C:
			l.tick()
		}
	}
}

// tick performs one capture cycle. Dropped outright when paused, when the
// session is inactive, or when a request is already in flight.
func (l *Loop) tick() {
	l.mu.Lock()
	if l.paused || l.processing || !l.cfg.Frames.Active() {
		l.mu.Unlock()
		return
	}
	l.processing = true
	generation := l.cfg.Frames.Generation()
	l.mu.Unlock()

	data, err := l.cfg.Frames.CaptureJPEG()
	if err != nil {
		// Missing frame or encode failure: abandon this tick, no retry
		log.Printf("Frame capture failed: %v", err)
		l.mu.Lock()
		l.processing = false
		l.lastError = "capture failed: " + err.Error()
		l.mu.Unlock()
		return
	}

	if l.cfg.Gate != nil && !l.cfg.Gate(data) {
		l.mu.Lock()
		l.processing = false
		l.mu.Unlock()
		return
	}

	go l.submit(generation, data)
}

// submit ships one frame to the backend and reconciles the response.
// The request deadline comes from the backend client.
func (l *Loop) submit(generation uint64, data []byte) {
	resp, err := l.cfg.Backend.Detect(context.Background(), data)

	l.mu.Lock()
	l.processing = false

	// The session was stopped (or restarted) while this request was in
	// flight; its result no longer belongs to anything on screen.
	if !l.running || generation != l.cfg.Frames.Generation() {
		l.mu.Unlock()
		return
	}

	if err != nil {
		l.lastError = "detection failed: " + err.Error()
		update := Update{Err: l.lastError, History: l.history.Labels()}
		subs := l.snapshotSubscribersLocked()
		l.mu.Unlock()
		notify(subs, update)
		return
	}

	l.lastError = ""

	if !resp.Success || len(resp.Detections) == 0 {
		// Nothing in frame: clear the live detections, keep the history
		l.current = nil
		update := Update{History: l.history.Labels()}
		subs := l.snapshotSubscribersLocked()
		l.mu.Unlock()
		notify(subs, update)
		return
	}

	sorted := make([]backend.Detection, len(resp.Detections))
	copy(sorted, resp.Detections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	top := sorted[0]
	l.current = sorted
	l.last = top.ClassName

	appended := l.history.Append(top.ClassName)

	update := Update{
		Detections: sorted,
		Top:        top.ClassName,
		History:    l.history.Labels(),
	}
	subs := l.snapshotSubscribersLocked()
	logRepo := l.cfg.Log
	l.mu.Unlock()

	if appended && logRepo != nil {
		entry := &store.Detection{
			ID:         uuid.New().String(),
			Label:      top.ClassName,
			Confidence: top.Confidence,
		}
		if err := logRepo.Create(entry); err != nil {
			log.Printf("Failed to record detection: %v", err)
		}
	}

	notify(subs, update)
}

// snapshotSubscribersLocked copies the subscriber list. Caller holds the
// lock; callbacks run outside it.
func (l *Loop) snapshotSubscribersLocked() []func(Update) {
	subs := make([]func(Update), 0, len(l.subscribers))
	for _, fn := range l.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(Update), update Update) {
	for _, fn := range subs {
		fn(update)
	}
}
