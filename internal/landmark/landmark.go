// Package landmark provides hand landmark detection for the signing
// overlay. Landmarks follow the MediaPipe hand model.
package landmark

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point is a 3D landmark coordinate. X and Y are normalized to the frame;
// Z is relative depth with the wrist as reference.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand holds the 21 landmarks of one detected hand.
type Hand struct {
	Points     [NumLandmarks]Point `json:"points"`
	Handedness string              `json:"handedness"` // "Left" or "Right"
	Score      float64             `json:"score"`
}

func dist(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Normalize translates the landmarks so the wrist sits at the origin and
// scales them so the wrist-to-middle-MCP distance is 1.0. Returns a new
// Hand; the receiver is not modified.
func (h *Hand) Normalize() *Hand {
	if h == nil {
		return nil
	}

	out := &Hand{
		Handedness: h.Handedness,
		Score:      h.Score,
	}

	wrist := h.Points[Wrist]
	for i := 0; i < NumLandmarks; i++ {
		out.Points[i] = Point{
			X: h.Points[i].X - wrist.X,
			Y: h.Points[i].Y - wrist.Y,
			Z: h.Points[i].Z - wrist.Z,
		}
	}

	scale := dist(Point{}, out.Points[MiddleMCP])
	if scale < 1e-10 {
		return out
	}

	for i := 0; i < NumLandmarks; i++ {
		out.Points[i].X /= scale
		out.Points[i].Y /= scale
		out.Points[i].Z /= scale
	}

	return out
}
