package capture

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWaitForDevice(t *testing.T) {
	t.Run("existing path returns immediately", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "video0")
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatalf("failed to create device stand-in: %v", err)
		}

		start := time.Now()
		if !WaitForDevice(path, 5*time.Second) {
			t.Error("WaitForDevice() = false for existing path")
		}
		if time.Since(start) > time.Second {
			t.Error("WaitForDevice() blocked on existing path")
		}
	})

	t.Run("missing path times out", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing")
		if WaitForDevice(path, 10*time.Millisecond) {
			t.Error("WaitForDevice() = true for missing path")
		}
	})

	t.Run("path appearing during wait", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "video0")

		go func() {
			time.Sleep(300 * time.Millisecond)
			os.WriteFile(path, nil, 0644)
		}()

		if !WaitForDevice(path, 5*time.Second) {
			t.Error("WaitForDevice() = false for path that appeared")
		}
	})
}

// failingCamera fails Open a configurable number of times before succeeding.
type failingCamera struct {
	MockCamera
	failures int
	attempts int
}

func (c *failingCamera) Open() error {
	c.attempts++
	if c.attempts <= c.failures {
		return errors.New("device busy")
	}
	return c.MockCamera.Open()
}

func TestOpenWithRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		cam := &failingCamera{failures: 2}

		err := OpenWithRetry(cam, 3, time.Millisecond)
		if err != nil {
			t.Fatalf("OpenWithRetry() error = %v", err)
		}

		if cam.attempts != 3 {
			t.Errorf("attempts = %d, want 3", cam.attempts)
		}
		if !cam.IsOpen() {
			t.Error("camera should be open after successful retry")
		}
	})

	t.Run("gives up after all attempts", func(t *testing.T) {
		cam := &failingCamera{failures: 10}

		err := OpenWithRetry(cam, 3, time.Millisecond)
		if err == nil {
			t.Fatal("OpenWithRetry() expected error")
		}

		if cam.attempts != 3 {
			t.Errorf("attempts = %d, want 3", cam.attempts)
		}
	})
}
