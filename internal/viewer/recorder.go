package viewer

import (
	"fmt"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"
)

// RecordFPS is the frame rate written into recorded video files.
const RecordFPS = 25

// recorder wraps a video writer for one recording session.
type recorder struct {
	writer  *gocv.VideoWriter
	path    string
	started time.Time
}

// newRecorder opens an XVID-encoded AVI file in dir sized for the current
// display dimensions.
func newRecorder(dir string, width, height int) (*recorder, error) {
	name := time.Now().Format("20060102--150405") + "output.avi"
	path := filepath.Join(dir, name)

	writer, err := gocv.VideoWriterFile(path, "XVID", RecordFPS, width, height, true)
	if err != nil {
		return nil, fmt.Errorf("open video writer %s: %w", path, err)
	}

	return &recorder{
		writer:  writer,
		path:    path,
		started: time.Now(),
	}, nil
}

// write appends one frame to the recording.
func (r *recorder) write(frame gocv.Mat) error {
	return r.writer.Write(frame)
}

// stop finalizes the file and returns the recording duration.
func (r *recorder) stop() (time.Duration, error) {
	err := r.writer.Close()
	return time.Since(r.started), err
}

// elapsed returns the running time formatted for the HUD.
func (r *recorder) elapsed() string {
	return formatElapsed(time.Since(r.started))
}

// formatElapsed renders a duration as HH:MM:SS.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// writeSnapshot saves a heatmap as a PNG in dir and returns the file path.
func writeSnapshot(dir string, heatmap gocv.Mat) (string, error) {
	name := "TC001" + time.Now().Format("20060102-150405") + ".png"
	path := filepath.Join(dir, name)

	if ok := gocv.IMWrite(path, heatmap); !ok {
		return "", fmt.Errorf("write snapshot %s", path)
	}

	return path, nil
}
