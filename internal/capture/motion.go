package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// MotionGate decides whether a frame differs enough from the previous one
// to be worth a backend round-trip. The detect loop can use it to skip
// ticks while the scene is static; with no gate configured every tick is
// submitted.
type MotionGate struct {
	mu        sync.Mutex
	threshold float64
	prevGray  gocv.Mat
	primed    bool
}

const (
	// blurKernel is the Gaussian kernel size used to suppress sensor noise.
	blurKernel = 21
	// diffThreshold is the per-pixel binary threshold on the frame delta.
	diffThreshold = 25
)

// NewMotionGate creates a gate that opens when more than threshold percent
// of pixels changed between consecutive frames.
func NewMotionGate(threshold float64) *MotionGate {
	return &MotionGate{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Changed reports whether the frame differs from the previous one, along
// with the percentage of changed pixels. The first frame primes the
// baseline and reports no change.
func (g *MotionGate) Changed(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernel, Y: blurKernel}, 0, 0, gocv.BorderDefault)

	if !g.primed {
		blurred.CopyTo(&g.prevGray)
		g.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, diffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(thresh)) / float64(thresh.Rows()*thresh.Cols()) * 100.0
	blurred.CopyTo(&g.prevGray)

	return changed > g.threshold, changed
}

// ChangedJPEG decodes an encoded frame and applies Changed. The priming
// frame opens the gate so the first capture after a restart is never lost.
func (g *MotionGate) ChangedJPEG(data []byte) bool {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return true
	}
	defer mat.Close()
	if mat.Empty() {
		// Fail open: an undecodable frame is the backend's problem to
		// reject, not the gate's to swallow.
		return true
	}

	g.mu.Lock()
	primed := g.primed
	g.mu.Unlock()

	changed, _ := g.Changed(&mat)
	return changed || !primed
}

// Reset drops the baseline so the next frame primes a new one.
func (g *MotionGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.primed = false
}

// Close releases the baseline frame.
func (g *MotionGate) Close() {
	g.Reset()
}
