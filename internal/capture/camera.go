// Package capture provides raw frame capture from a USB thermal camera
// using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Sensor geometry. The device delivers a double-height frame: the top half
// is the visual image, the bottom half is the thermal data.
const (
	SensorWidth  = 256
	SensorHeight = 192
)

// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// Camera defines the interface for thermal camera implementations.
type Camera interface {
	Open() error
	Close() error
	ReadRaw() (*gocv.Mat, error)
	IsOpen() bool
}

// thermalCamera manages raw video capture from a V4L2 device using GoCV.
// RGB conversion is disabled so the sensor's YUYV payload comes through
// untouched; a format conversion would destroy the thermal half.
type thermalCamera struct {
	device  string
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
}

// NewCamera creates a new Camera reading from the given V4L2 device path,
// for example "/dev/video0".
func NewCamera(device string) Camera {
	return &thermalCamera{device: device}
}

// Open opens the camera for capturing raw frames.
func (c *thermalCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCaptureWithAPI(c.device, gocv.VideoCaptureV4L2)
	if err != nil {
		return fmt.Errorf("open %s: %w", c.device, err)
	}

	// Raw passthrough: the driver must not convert frames to RGB.
	capture.Set(gocv.VideoCaptureConvertRGB, 0)

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the camera and releases resources.
func (c *thermalCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadRaw reads a single raw frame from the camera.
// The caller is responsible for closing the returned Mat.
func (c *thermalCamera) ReadRaw() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

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

// IsOpen returns true if the camera is currently open and running.
func (c *thermalCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

// SplitRaw splits a raw double-height frame into its visual and thermal
// halves. The returned Mats are views sharing raw's storage; both must be
// closed and raw must outlive them.
func SplitRaw(raw *gocv.Mat) (visual, thermal gocv.Mat, err error) {
	if raw == nil || raw.Empty() {
		return gocv.Mat{}, gocv.Mat{}, errors.New("empty raw frame")
	}

	if raw.Channels() != 2 {
		return gocv.Mat{}, gocv.Mat{}, fmt.Errorf("raw frame has %d channels, want 2", raw.Channels())
	}

	rows := raw.Rows()
	if rows%2 != 0 {
		return gocv.Mat{}, gocv.Mat{}, fmt.Errorf("raw frame has odd row count %d", rows)
	}

	half := rows / 2
	return raw.RowRange(0, half), raw.RowRange(half, rows), nil
}
