package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/ushna/testdata"
)

func TestNewCamera(t *testing.T) {
	cam := NewCamera("/dev/video0")

	if cam == nil {
		t.Fatal("NewCamera returned nil")
	}

	if cam.IsOpen() {
		t.Error("camera should not be running initially")
	}
}

func TestCamera_ReadRaw_NotOpened(t *testing.T) {
	cam := NewCamera("/dev/video0")

	_, err := cam.ReadRaw()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadRaw() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera("/dev/video0")

	// Close on a camera that was never opened should not panic and return nil
	if err := cam.Close(); err != nil {
		t.Errorf("Close() on not opened camera should return nil, got: %v", err)
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera("/dev/video0")

	err := cam.Open()
	if err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	mat, err := cam.ReadRaw()
	if err != nil {
		t.Errorf("ReadRaw() failed: %v", err)
	} else {
		if mat.Empty() {
			t.Error("ReadRaw() returned empty mat")
		}
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}

func TestSplitRaw(t *testing.T) {
	raw, err := testdata.UniformFrame(SensorWidth, SensorHeight, 100, 25.0)
	if err != nil {
		t.Fatalf("UniformFrame() error = %v", err)
	}
	defer raw.Close()

	visual, thermal, err := SplitRaw(raw)
	if err != nil {
		t.Fatalf("SplitRaw() error = %v", err)
	}
	defer visual.Close()
	defer thermal.Close()

	if visual.Rows() != SensorHeight || visual.Cols() != SensorWidth {
		t.Errorf("visual half is %dx%d, want %dx%d", visual.Cols(), visual.Rows(), SensorWidth, SensorHeight)
	}
	if thermal.Rows() != SensorHeight || thermal.Cols() != SensorWidth {
		t.Errorf("thermal half is %dx%d, want %dx%d", thermal.Cols(), thermal.Rows(), SensorWidth, SensorHeight)
	}

	// Visual half carries luma, thermal half carries temperature bytes
	if got := visual.GetVecbAt(0, 0); got[0] != 100 {
		t.Errorf("visual luma = %d, want 100", got[0])
	}
}

func TestSplitRaw_Invalid(t *testing.T) {
	t.Run("nil frame", func(t *testing.T) {
		if _, _, err := SplitRaw(nil); err == nil {
			t.Error("SplitRaw(nil) expected error")
		}
	})
}

func TestMockCamera(t *testing.T) {
	frame, err := testdata.UniformFrame(SensorWidth, SensorHeight, 50, 22.0)
	if err != nil {
		t.Fatalf("UniformFrame() error = %v", err)
	}
	defer frame.Close()

	t.Run("read before open fails", func(t *testing.T) {
		cam := NewMockCamera(nil, false)
		if _, err := cam.ReadRaw(); !errors.Is(err, ErrCameraNotOpen) {
			t.Errorf("ReadRaw() error = %v, want ErrCameraNotOpen", err)
		}
	})

	t.Run("exhausts without loop", func(t *testing.T) {
		cam := NewMockCamera([]*gocv.Mat{frame}, false)
		if err := cam.Open(); err != nil {
			t.Fatalf("Open() error = %v", err)
		}

		got, err := cam.ReadRaw()
		if err != nil {
			t.Fatalf("ReadRaw() error = %v", err)
		}
		got.Close()

		if _, err := cam.ReadRaw(); err == nil {
			t.Error("ReadRaw() after last frame expected error")
		}
	})

	t.Run("loops when configured", func(t *testing.T) {
		cam := NewMockCamera([]*gocv.Mat{frame}, true)
		if err := cam.Open(); err != nil {
			t.Fatalf("Open() error = %v", err)
		}

		for i := 0; i < 3; i++ {
			got, err := cam.ReadRaw()
			if err != nil {
				t.Fatalf("ReadRaw() iteration %d error = %v", i, err)
			}
			got.Close()
		}
	})

	t.Run("clone leaves source untouched", func(t *testing.T) {
		cam := NewMockCamera([]*gocv.Mat{frame}, true)
		cam.Open()

		got, err := cam.ReadRaw()
		if err != nil {
			t.Fatalf("ReadRaw() error = %v", err)
		}
		got.SetUCharAt(0, 0, 200)
		got.Close()

		if v := frame.GetVecbAt(0, 0); v[0] != 50 {
			t.Errorf("source frame modified: luma = %d, want 50", v[0])
		}
	})
}
