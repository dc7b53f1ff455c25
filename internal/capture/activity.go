package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// ActivityDetector detects scene activity between consecutive frames using
// frame differencing with Gaussian blur for noise reduction. It operates on
// the visual half of a raw frame, whose first channel is the luma plane.
type ActivityDetector struct {
	threshold   float64
	prevLuma    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// Activity detection constants
const (
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21)
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold for difference detection
	DiffThreshold = 25
)

// NewActivityDetector creates a new ActivityDetector with the given
// threshold: the percentage of pixels that must change to count as
// activity. For example, 1.0 means 1% of pixels must change.
func NewActivityDetector(threshold float64) *ActivityDetector {
	return &ActivityDetector{
		threshold: threshold,
		prevLuma:  gocv.NewMat(),
	}
}

// Detect analyzes the visual half of a raw frame for activity compared to
// the previous frame. Returns whether activity was detected and the
// percentage of pixels that changed.
func (d *ActivityDetector) Detect(visual *gocv.Mat) (bool, float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if visual == nil || visual.Empty() {
		return false, 0
	}

	// Extract the luma plane
	luma := gocv.NewMat()
	defer luma.Close()

	if visual.Channels() > 1 {
		planes := gocv.Split(*visual)
		planes[0].CopyTo(&luma)
		for _, p := range planes {
			p.Close()
		}
	} else {
		visual.CopyTo(&luma)
	}

	// Blur to reduce sensor noise
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(luma, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	// First frame becomes the baseline
	if !d.initialized {
		blurred.CopyTo(&d.prevLuma)
		d.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, d.prevLuma, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()
	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	blurred.CopyTo(&d.prevLuma)

	return changePercent > d.threshold, changePercent
}

// Reset clears the detector state so the next frame becomes a new baseline.
func (d *ActivityDetector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.prevLuma.Empty() {
		d.prevLuma.Close()
		d.prevLuma = gocv.NewMat()
	}
	d.initialized = false
}

// Close releases resources used by the detector.
func (d *ActivityDetector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.prevLuma.Empty() {
		d.prevLuma.Close()
		d.prevLuma = gocv.NewMat()
	}
	d.initialized = false
}

// SetThreshold sets the activity threshold as a percentage of changed
// pixels. Values less than or equal to 0 are ignored.
func (d *ActivityDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.threshold = threshold
}
