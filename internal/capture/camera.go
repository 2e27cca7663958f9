// Package capture owns camera acquisition for the SignSerenade daemon.
package capture

import (
	"errors"

	"gocv.io/x/gocv"
)

// Nominal capture resolution. The backend model was trained on frames of
// this size; the actual device may deliver something else and frames are
// used at their native resolution.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// ErrCameraNotOpen is returned when reading from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// Camera is the device-level interface the session manager drives. All
// lifecycle mutation goes through Session; consumers only read frames.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
}

// deviceCamera captures from a local camera device using GoCV.
type deviceCamera struct {
	deviceID int
	capture  *gocv.VideoCapture
	running  bool
}

// NewCamera creates a Camera for the given device ID. The device is not
// opened until Open is called.
func NewCamera(deviceID int) Camera {
	return &deviceCamera{deviceID: deviceID}
}

// Open opens the camera device and requests the nominal 640x480 resolution.
func (c *deviceCamera) Open() error {
	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return err
	}

	capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)

	c.capture = capture
	c.running = true
	return nil
}

// Close closes the camera and releases the device.
func (c *deviceCamera) Close() error {
	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false
	return err
}

// ReadFrame reads a single frame at the device's native resolution.
// The caller is responsible for closing the returned Mat.
func (c *deviceCamera) ReadFrame() (*gocv.Mat, error) {
	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}
	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	return &mat, nil
}

// IsOpen reports whether the device is currently open.
func (c *deviceCamera) IsOpen() bool {
	return c.running
}
