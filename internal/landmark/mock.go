package landmark

import "gocv.io/x/gocv"

// MockDetector is a test implementation of Detector with scripted results.
type MockDetector struct {
	hands []Hand
	err   error
}

// NewMockDetector creates a MockDetector returning no hands.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned by Detect.
func (m *MockDetector) SetHands(hands []Hand) {
	m.hands = hands
}

// SetError sets the error returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// OpenPalmHand returns a preset Hand with all fingers extended, the
// starting posture for most one-handed signs.
func OpenPalmHand() Hand {
	hand := Hand{
		Handedness: "Right",
		Score:      0.95,
	}

	hand.Points[Wrist] = Point{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	hand.Points[ThumbCMC] = Point{X: 0.55, Y: 0.75, Z: 0.02}
	hand.Points[ThumbMCP] = Point{X: 0.62, Y: 0.70, Z: 0.03}
	hand.Points[ThumbIP] = Point{X: 0.68, Y: 0.65, Z: 0.03}
	hand.Points[ThumbTip] = Point{X: 0.73, Y: 0.60, Z: 0.03}

	// Four fingers extended upward (Y decreases going up)
	hand.Points[IndexMCP] = Point{X: 0.55, Y: 0.68, Z: 0.0}
	hand.Points[IndexPIP] = Point{X: 0.57, Y: 0.55, Z: 0.0}
	hand.Points[IndexDIP] = Point{X: 0.58, Y: 0.45, Z: 0.0}
	hand.Points[IndexTip] = Point{X: 0.58, Y: 0.35, Z: 0.0}

	hand.Points[MiddleMCP] = Point{X: 0.50, Y: 0.66, Z: 0.0}
	hand.Points[MiddlePIP] = Point{X: 0.50, Y: 0.52, Z: 0.0}
	hand.Points[MiddleDIP] = Point{X: 0.50, Y: 0.40, Z: 0.0}
	hand.Points[MiddleTip] = Point{X: 0.50, Y: 0.28, Z: 0.0}

	hand.Points[RingMCP] = Point{X: 0.45, Y: 0.68, Z: 0.0}
	hand.Points[RingPIP] = Point{X: 0.43, Y: 0.55, Z: 0.0}
	hand.Points[RingDIP] = Point{X: 0.42, Y: 0.45, Z: 0.0}
	hand.Points[RingTip] = Point{X: 0.42, Y: 0.35, Z: 0.0}

	hand.Points[PinkyMCP] = Point{X: 0.40, Y: 0.70, Z: 0.0}
	hand.Points[PinkyPIP] = Point{X: 0.37, Y: 0.60, Z: 0.0}
	hand.Points[PinkyDIP] = Point{X: 0.35, Y: 0.50, Z: 0.0}
	hand.Points[PinkyTip] = Point{X: 0.34, Y: 0.42, Z: 0.0}

	return hand
}

// PointingHand returns a preset Hand with only the index finger extended,
// the posture of the "You" and "Me" signs.
func PointingHand() Hand {
	hand := Hand{
		Handedness: "Right",
		Score:      0.95,
	}

	hand.Points[Wrist] = Point{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb resting against the curled fingers
	hand.Points[ThumbCMC] = Point{X: 0.55, Y: 0.75, Z: 0.0}
	hand.Points[ThumbMCP] = Point{X: 0.57, Y: 0.70, Z: -0.01}
	hand.Points[ThumbIP] = Point{X: 0.55, Y: 0.67, Z: -0.03}
	hand.Points[ThumbTip] = Point{X: 0.52, Y: 0.66, Z: -0.04}

	// Index extended upward
	hand.Points[IndexMCP] = Point{X: 0.55, Y: 0.68, Z: 0.0}
	hand.Points[IndexPIP] = Point{X: 0.56, Y: 0.55, Z: 0.0}
	hand.Points[IndexDIP] = Point{X: 0.57, Y: 0.45, Z: 0.0}
	hand.Points[IndexTip] = Point{X: 0.57, Y: 0.35, Z: 0.0}

	// Remaining fingers curled toward the palm
	hand.Points[MiddleMCP] = Point{X: 0.50, Y: 0.68, Z: -0.02}
	hand.Points[MiddlePIP] = Point{X: 0.50, Y: 0.66, Z: -0.05}
	hand.Points[MiddleDIP] = Point{X: 0.47, Y: 0.68, Z: -0.04}
	hand.Points[MiddleTip] = Point{X: 0.45, Y: 0.70, Z: -0.02}

	hand.Points[RingMCP] = Point{X: 0.45, Y: 0.70, Z: -0.02}
	hand.Points[RingPIP] = Point{X: 0.45, Y: 0.68, Z: -0.05}
	hand.Points[RingDIP] = Point{X: 0.42, Y: 0.70, Z: -0.04}
	hand.Points[RingTip] = Point{X: 0.40, Y: 0.72, Z: -0.02}

	hand.Points[PinkyMCP] = Point{X: 0.40, Y: 0.72, Z: -0.02}
	hand.Points[PinkyPIP] = Point{X: 0.40, Y: 0.70, Z: -0.05}
	hand.Points[PinkyDIP] = Point{X: 0.37, Y: 0.72, Z: -0.04}
	hand.Points[PinkyTip] = Point{X: 0.35, Y: 0.74, Z: -0.02}

	return hand
}
