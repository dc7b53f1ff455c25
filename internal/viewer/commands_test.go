package viewer

import (
	"errors"
	"math"
	"testing"

	"github.com/ayusman/ushna/internal/capture"
	"github.com/ayusman/ushna/internal/render"
)

func newTestViewer(t *testing.T) *Viewer {
	t.Helper()

	return New(Config{
		Camera:   capture.NewMockCamera(nil, true),
		MediaDir: t.TempDir(),
	})
}

func TestCommand_CycleColormap(t *testing.T) {
	v := newTestViewer(t)

	for i := 1; i <= len(render.Colormaps); i++ {
		if err := v.Command("m"); err != nil {
			t.Fatalf("Command(m) error = %v", err)
		}

		want := i % len(render.Colormaps)
		if got := v.Settings().Colormap; got != want {
			t.Fatalf("after %d cycles Colormap = %d, want %d", i, got, want)
		}
	}
}

func TestCommand_ToggleHUD(t *testing.T) {
	v := newTestViewer(t)

	if err := v.Command("h"); err != nil {
		t.Fatalf("Command(h) error = %v", err)
	}
	if v.Settings().HUD {
		t.Error("HUD should be off after first toggle")
	}

	v.Command("h")
	if !v.Settings().HUD {
		t.Error("HUD should be on after second toggle")
	}
}

func TestCommand_Contrast(t *testing.T) {
	v := newTestViewer(t)

	t.Run("increase steps by 0.1", func(t *testing.T) {
		v.Command("f")
		if got := v.Settings().Alpha; math.Abs(got-1.1) > 1e-9 {
			t.Errorf("Alpha = %v, want 1.1", got)
		}
	})

	t.Run("clamps at maximum", func(t *testing.T) {
		for i := 0; i < 40; i++ {
			v.Command("f")
		}
		if got := v.Settings().Alpha; got != MaxAlpha {
			t.Errorf("Alpha = %v, want clamp at %v", got, MaxAlpha)
		}
	})

	t.Run("clamps at minimum", func(t *testing.T) {
		for i := 0; i < 40; i++ {
			v.Command("v")
		}
		if got := v.Settings().Alpha; got != MinAlpha {
			t.Errorf("Alpha = %v, want clamp at %v", got, MinAlpha)
		}
	})
}

func TestCommand_Blur(t *testing.T) {
	v := newTestViewer(t)

	t.Run("decrease stops at zero", func(t *testing.T) {
		v.Command("z")
		if got := v.Settings().Blur; got != 0 {
			t.Errorf("Blur = %d, want 0", got)
		}
	})

	t.Run("increase clamps at maximum", func(t *testing.T) {
		for i := 0; i < MaxBlur+5; i++ {
			v.Command("a")
		}
		if got := v.Settings().Blur; got != MaxBlur {
			t.Errorf("Blur = %d, want %d", got, MaxBlur)
		}
	})
}

func TestCommand_Threshold(t *testing.T) {
	v := newTestViewer(t)

	v.Command("s")
	if got := v.Settings().Threshold; got != 3 {
		t.Errorf("Threshold = %d, want 3", got)
	}

	for i := 0; i < MaxThreshold+5; i++ {
		v.Command("s")
	}
	if got := v.Settings().Threshold; got != MaxThreshold {
		t.Errorf("Threshold = %d, want clamp at %d", got, MaxThreshold)
	}

	for i := 0; i < MaxThreshold+5; i++ {
		v.Command("x")
	}
	if got := v.Settings().Threshold; got != 0 {
		t.Errorf("Threshold = %d, want 0", got)
	}
}

func TestCommand_Scale(t *testing.T) {
	v := newTestViewer(t)

	for i := 0; i < MaxScale+3; i++ {
		v.Command("d")
	}
	if got := v.Settings().Scale; got != MaxScale {
		t.Errorf("Scale = %d, want clamp at %d", got, MaxScale)
	}

	for i := 0; i < MaxScale+3; i++ {
		v.Command("c")
	}
	if got := v.Settings().Scale; got != MinScale {
		t.Errorf("Scale = %d, want clamp at %d", got, MinScale)
	}
}

func TestCommand_Snapshot(t *testing.T) {
	v := newTestViewer(t)

	if err := v.Command("p"); err != nil {
		t.Fatalf("Command(p) error = %v", err)
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.snapRequested {
		t.Error("snapshot command should mark a pending snapshot")
	}
}

func TestCommand_Unknown(t *testing.T) {
	v := newTestViewer(t)

	for _, cmd := range []string{"q", "Q", "", "mm", "1"} {
		if err := v.Command(cmd); !errors.Is(err, ErrUnknownCommand) {
			t.Errorf("Command(%q) error = %v, want ErrUnknownCommand", cmd, err)
		}
	}
}

func TestCommand_PersistsSettings(t *testing.T) {
	st := newTestStore(t)

	v := New(Config{
		Camera:   capture.NewMockCamera(nil, true),
		Store:    st,
		MediaDir: t.TempDir(),
	})

	v.Command("m")
	v.Command("h")
	v.Command("f")

	// A fresh viewer against the same store picks the values back up
	v2 := New(Config{
		Camera:   capture.NewMockCamera(nil, true),
		Store:    st,
		MediaDir: t.TempDir(),
	})

	s := v2.Settings()
	if s.Colormap != 1 {
		t.Errorf("restored Colormap = %d, want 1", s.Colormap)
	}
	if s.HUD {
		t.Error("restored HUD should be off")
	}
	if math.Abs(s.Alpha-1.1) > 1e-9 {
		t.Errorf("restored Alpha = %v, want 1.1", s.Alpha)
	}
}
