package viewer

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/ushna/internal/capture"
	"github.com/ayusman/ushna/internal/render"
	"github.com/ayusman/ushna/internal/store"
	"github.com/ayusman/ushna/internal/thermal"
)

// runPipeline is the capture loop: read a raw frame, decode temperatures,
// render the heatmap, publish the encoded frame, and feed any active
// recording. Consecutive read failures trigger a camera reinitialization.
func (v *Viewer) runPipeline(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := time.Second / time.Duration(v.config.FPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	failures := 0

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if err := v.processFrame(); err != nil {
				failures++
				log.Printf("Error processing frame: %v", err)
				if failures >= ReadFailureLimit {
					failures = 0
					v.reinitCamera(stopCh)
				}
				continue
			}
			failures = 0
		}
	}
}

// reinitCamera closes and reopens the camera after repeated read failures.
// USB thermal cameras drop off the bus under power fluctuations; a reopen
// usually brings them back.
func (v *Viewer) reinitCamera(stopCh <-chan struct{}) {
	log.Println("Reinitializing camera...")

	if err := v.camera.Close(); err != nil {
		log.Printf("Error closing camera for reinit: %v", err)
	}

	select {
	case <-stopCh:
		return
	case <-time.After(ReinitDelay):
	}

	if err := capture.OpenWithRetry(v.camera, ReinitRetries, ReinitDelay); err != nil {
		log.Printf("Camera reinit failed: %v", err)
	}
}

// processFrame handles a single capture cycle.
func (v *Viewer) processFrame() error {
	raw, err := v.camera.ReadRaw()
	if err != nil {
		return err
	}
	defer raw.Close()

	visual, th, err := capture.SplitRaw(raw)
	if err != nil {
		return err
	}
	defer visual.Close()
	defer th.Close()

	data, err := th.DataPtrUint8()
	if err != nil {
		return err
	}

	reading, err := thermal.Stats(data, th.Cols(), th.Rows())
	if err != nil {
		return err
	}

	opts := v.renderOptions(reading)

	heatmap, err := render.Heatmap(&visual, reading, opts)
	if err != nil {
		return err
	}
	defer heatmap.Close()

	if v.config.AutoRecord {
		v.updateAutoRecord(&visual)
	}

	v.finishFrame(heatmap, reading)

	buf, err := gocv.IMEncode(".jpg", heatmap)
	if err != nil {
		return err
	}
	frame := make([]byte, buf.Len())
	copy(frame, buf.GetBytes())
	buf.Close()

	v.publish(frame)
	return nil
}

// renderOptions snapshots the settings for one render pass, refreshing the
// recording elapsed display.
func (v *Viewer) renderOptions(reading thermal.Reading) render.Options {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.rec != nil {
		v.settings.Elapsed = v.rec.elapsed()
	}

	return render.Options{
		Alpha:     v.settings.Alpha,
		Colormap:  v.settings.Colormap,
		Blur:      v.settings.Blur,
		Scale:     v.settings.Scale,
		Threshold: v.settings.Threshold,
		HUD:       v.settings.HUD,
		Recording: v.settings.Recording,
		Elapsed:   v.settings.Elapsed,
		SnapTime:  v.settings.SnapTime,
	}
}

// updateAutoRecord drives activity-triggered recording: scene activity
// starts a recording, a quiet period ends it.
func (v *Viewer) updateAutoRecord(visual *gocv.Mat) {
	active, _ := v.activity.Detect(visual)
	now := time.Now()

	v.mu.Lock()
	defer v.mu.Unlock()

	if active {
		v.lastActivity = now
		if v.rec == nil {
			v.startRecordingLocked()
			v.autoStarted = v.rec != nil
			if v.autoStarted {
				log.Println("Activity detected, recording started")
			}
		}
		return
	}

	if v.autoStarted && v.rec != nil && now.Sub(v.lastActivity) > AutoRecordIdleTimeout {
		log.Println("Activity ended, recording stopped")
		v.finishRecordingLocked()
	}
}

// finishFrame updates shared state with the rendered result: the latest
// reading, a pending snapshot, and the active recording.
func (v *Viewer) finishFrame(heatmap gocv.Mat, reading thermal.Reading) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.reading = reading
	v.frames++

	if v.snapRequested {
		v.snapRequested = false
		path, err := writeSnapshot(v.config.MediaDir, heatmap)
		if err != nil {
			log.Printf("Snapshot failed: %v", err)
		} else {
			v.settings.SnapTime = time.Now().Format("15:04:05")
			v.storeMedia(store.MediaKindSnapshot, path, 0)
			log.Printf("Snapshot saved: %s", path)
		}
	}

	if v.rec != nil {
		if err := v.rec.write(heatmap); err != nil {
			log.Printf("Error writing recording frame: %v", err)
		}
	}
}
