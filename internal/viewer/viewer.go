// Package viewer orchestrates the thermal pipeline: capture raw frames,
// decode temperatures, render heatmaps, and publish encoded frames to
// stream subscribers.
package viewer

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/ushna/internal/capture"
	"github.com/ayusman/ushna/internal/render"
	"github.com/ayusman/ushna/internal/store"
	"github.com/ayusman/ushna/internal/thermal"
)

// Pipeline constants.
const (
	// DefaultFPS is the capture loop frame rate.
	DefaultFPS = 25
	// ReadFailureLimit is the number of consecutive read failures before
	// the camera is reinitialized.
	ReadFailureLimit = 3
	// ReinitRetries and ReinitDelay control camera reinitialization.
	ReinitRetries = 3
	ReinitDelay   = 2 * time.Second
	// AutoRecordIdleTimeout stops an activity-triggered recording after
	// this long without further activity.
	AutoRecordIdleTimeout = 2 * time.Second
)

// Config holds configuration options for the viewer.
type Config struct {
	Camera   capture.Camera
	Store    *store.Store
	MediaDir string
	FPS      int
	// AutoRecord starts and stops recordings on thermal scene activity.
	AutoRecord     bool
	ActivityThresh float64
}

// Viewer is the main pipeline that turns raw camera frames into published
// heatmap frames and executes control commands.
type Viewer struct {
	config   Config
	camera   capture.Camera
	activity *capture.ActivityDetector

	mu            sync.RWMutex
	settings      Settings
	reading       thermal.Reading
	frames        uint64
	rec           *recorder
	snapRequested bool
	subs          map[chan []byte]struct{}
	closed        bool

	autoStarted  bool
	lastActivity time.Time

	stopCh chan struct{}
	done   chan struct{}
}

// New creates a new Viewer with the given configuration. Persisted
// settings, when a store is configured, overlay the defaults.
func New(config Config) *Viewer {
	if config.FPS <= 0 {
		config.FPS = DefaultFPS
	}

	activityThreshold := config.ActivityThresh
	if activityThreshold <= 0 {
		activityThreshold = 1.0 // 1% pixel change
	}

	v := &Viewer{
		config:   config,
		camera:   config.Camera,
		activity: capture.NewActivityDetector(activityThreshold),
		settings: DefaultSettings(),
		subs:     make(map[chan []byte]struct{}),
	}

	if config.Store != nil {
		restoreSettings(config.Store.Settings(), &v.settings)
	}

	return v
}

// Start begins the capture pipeline. A camera that cannot be opened yet is
// not fatal; the pipeline keeps retrying.
func (v *Viewer) Start() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.stopCh != nil {
		return nil
	}

	if !v.camera.IsOpen() {
		if err := v.camera.Open(); err != nil {
			log.Printf("Camera not available at startup, will retry: %v", err)
		}
	}

	v.stopCh = make(chan struct{})
	v.done = make(chan struct{})
	go v.runPipeline(v.stopCh, v.done)

	log.Println("Viewer pipeline started")
	return nil
}

// Stop halts the pipeline, finalizes any active recording, and releases
// resources.
func (v *Viewer) Stop() {
	v.mu.Lock()
	stopCh, done := v.stopCh, v.done
	v.stopCh, v.done = nil, nil
	v.mu.Unlock()

	if stopCh == nil {
		return
	}

	close(stopCh)
	<-done

	v.mu.Lock()
	if v.rec != nil {
		v.finishRecordingLocked()
	}
	// Release stream consumers; a closed channel ends their handler loop.
	for ch := range v.subs {
		delete(v.subs, ch)
		close(ch)
	}
	v.closed = true
	v.mu.Unlock()

	if err := v.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	v.activity.Close()

	log.Println("Viewer pipeline stopped")
}

// Subscribe registers a stream consumer. Each subscriber holds a single
// frame slot; when the consumer falls behind, older frames are dropped in
// favor of the newest one. After Stop the returned channel is already
// closed.
func (v *Viewer) Subscribe() chan []byte {
	ch := make(chan []byte, 1)

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		close(ch)
		return ch
	}
	v.subs[ch] = struct{}{}
	v.mu.Unlock()

	return ch
}

// Unsubscribe removes and closes a stream consumer channel.
func (v *Viewer) Unsubscribe(ch chan []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.subs[ch]; ok {
		delete(v.subs, ch)
		close(ch)
	}
}

// publish delivers an encoded frame to every subscriber, replacing any
// undelivered older frame.
func (v *Viewer) publish(frame []byte) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	for ch := range v.subs {
		select {
		case ch <- frame:
		default:
			// Drop the stale frame, then retry once
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- frame:
			default:
			}
		}
	}
}

// Status is a point-in-time snapshot of the viewer state.
type Status struct {
	Settings   Settings        `json:"settings"`
	Colormap   string          `json:"colormap"`
	Reading    thermal.Reading `json:"reading"`
	Frames     uint64          `json:"frames"`
	CameraOpen bool            `json:"camera_open"`
}

// Status returns the current settings and latest reading.
func (v *Viewer) Status() Status {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return Status{
		Settings:   v.settings,
		Colormap:   render.ColormapAt(v.settings.Colormap).Name,
		Reading:    v.reading,
		Frames:     v.frames,
		CameraOpen: v.camera.IsOpen(),
	}
}

// Settings returns a copy of the current settings.
func (v *Viewer) Settings() Settings {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.settings
}

// CameraOpen reports whether the underlying camera is open.
func (v *Viewer) CameraOpen() bool {
	return v.camera.IsOpen()
}

// startRecordingLocked opens a new recording session. Callers hold v.mu.
func (v *Viewer) startRecordingLocked() {
	if v.rec != nil {
		return
	}

	rec, err := newRecorder(v.config.MediaDir, v.settings.DisplayWidth(), v.settings.DisplayHeight())
	if err != nil {
		log.Printf("Failed to start recording: %v", err)
		return
	}

	v.rec = rec
	v.settings.Recording = true
	log.Printf("Recording started: %s", rec.path)
}

// finishRecordingLocked finalizes the active recording and stores its
// metadata. Callers hold v.mu.
func (v *Viewer) finishRecordingLocked() {
	rec := v.rec
	v.rec = nil
	v.settings.Recording = false
	v.settings.Elapsed = "00:00:00"
	v.autoStarted = false

	duration, err := rec.stop()
	if err != nil {
		log.Printf("Error finalizing recording %s: %v", rec.path, err)
	}
	log.Printf("Recording stopped: %s (%s)", rec.path, formatElapsed(duration))

	v.storeMedia(store.MediaKindRecording, rec.path, duration)
}

// storeMedia records captured media metadata; storage errors are logged,
// the file itself is already on disk.
func (v *Viewer) storeMedia(kind store.MediaKind, path string, duration time.Duration) {
	if v.config.Store == nil {
		return
	}

	m := &store.Media{
		ID:       uuid.New().String(),
		Kind:     kind,
		Path:     path,
		Colormap: render.ColormapAt(v.settings.Colormap).Name,
		Duration: duration,
	}

	if err := v.config.Store.Media().Create(m); err != nil {
		log.Printf("Failed to store %s metadata: %v", kind, err)
	}
}
