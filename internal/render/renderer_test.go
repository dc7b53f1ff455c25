package render

import (
	"testing"

	"github.com/ayusman/ushna/internal/capture"
	"github.com/ayusman/ushna/internal/thermal"
	"github.com/ayusman/ushna/testdata"
)

func TestColormapAt(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  string
	}{
		{"first entry", 0, "Jet"},
		{"second entry", 1, "Hot"},
		{"last entry", 10, "Inv Rainbow"},
		{"wraps past end", 11, "Jet"},
		{"wraps twice", 23, "Hot"},
		{"negative wraps", -1, "Inv Rainbow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColormapAt(tt.index).Name; got != tt.want {
				t.Errorf("ColormapAt(%d).Name = %q, want %q", tt.index, got, tt.want)
			}
		})
	}
}

func TestColormaps_InvertedFlag(t *testing.T) {
	for _, cm := range Colormaps {
		inverted := cm.Name == "Inv Rainbow"
		if cm.Inverted != inverted {
			t.Errorf("%s: Inverted = %v, want %v", cm.Name, cm.Inverted, inverted)
		}
	}
}

func defaultOptions() Options {
	return Options{
		Alpha:     1.0,
		Scale:     3,
		Threshold: 2,
		HUD:       true,
		Elapsed:   "00:00:00",
		SnapTime:  "None",
	}
}

func TestHeatmap(t *testing.T) {
	raw, err := testdata.UniformFrame(capture.SensorWidth, capture.SensorHeight, 100, 24.0)
	if err != nil {
		t.Fatalf("UniformFrame() error = %v", err)
	}
	defer raw.Close()

	visual, th, err := capture.SplitRaw(raw)
	if err != nil {
		t.Fatalf("SplitRaw() error = %v", err)
	}
	defer visual.Close()
	defer th.Close()

	reading := thermal.Reading{Center: 24, Min: 20, Max: 30, Avg: 24}

	t.Run("output has display dimensions", func(t *testing.T) {
		heatmap, err := Heatmap(&visual, reading, defaultOptions())
		if err != nil {
			t.Fatalf("Heatmap() error = %v", err)
		}
		defer heatmap.Close()

		wantW := capture.SensorWidth * 3
		wantH := capture.SensorHeight * 3
		if heatmap.Cols() != wantW || heatmap.Rows() != wantH {
			t.Errorf("heatmap is %dx%d, want %dx%d", heatmap.Cols(), heatmap.Rows(), wantW, wantH)
		}
		if heatmap.Channels() != 3 {
			t.Errorf("heatmap has %d channels, want 3", heatmap.Channels())
		}
	})

	t.Run("every colormap renders", func(t *testing.T) {
		for i, cm := range Colormaps {
			opts := defaultOptions()
			opts.Colormap = i

			heatmap, err := Heatmap(&visual, reading, opts)
			if err != nil {
				t.Errorf("Heatmap() with %s error = %v", cm.Name, err)
				continue
			}
			if heatmap.Empty() {
				t.Errorf("Heatmap() with %s returned empty image", cm.Name)
			}
			heatmap.Close()
		}
	})

	t.Run("blur and markers render", func(t *testing.T) {
		opts := defaultOptions()
		opts.Blur = 3
		opts.Recording = true
		hot := thermal.Reading{Center: 24, Min: 10, Max: 90, Avg: 24}

		heatmap, err := Heatmap(&visual, hot, opts)
		if err != nil {
			t.Fatalf("Heatmap() error = %v", err)
		}
		heatmap.Close()
	})

	t.Run("scale below one is clamped", func(t *testing.T) {
		opts := defaultOptions()
		opts.Scale = 0

		heatmap, err := Heatmap(&visual, reading, opts)
		if err != nil {
			t.Fatalf("Heatmap() error = %v", err)
		}
		defer heatmap.Close()

		if heatmap.Cols() != capture.SensorWidth {
			t.Errorf("clamped width = %d, want %d", heatmap.Cols(), capture.SensorWidth)
		}
	})
}

func TestHeatmap_EmptyInput(t *testing.T) {
	if _, err := Heatmap(nil, thermal.Reading{}, defaultOptions()); err == nil {
		t.Error("Heatmap(nil) expected error")
	}
}
