package viewer

import (
	"errors"
	"log"
	"math"

	"github.com/ayusman/ushna/internal/render"
	"github.com/ayusman/ushna/internal/store"
)

// ErrUnknownCommand is returned for commands outside the control set.
var ErrUnknownCommand = errors.New("unknown command")

// Command executes a single-character control command:
//
//	m    cycle colormap
//	h    toggle HUD
//	r    start/stop recording
//	p    take snapshot
//	f v  contrast up/down
//	a z  blur up/down
//	s x  label threshold up/down
//	d c  interpolated scale up/down
func (v *Viewer) Command(cmd string) error {
	var repo *store.SettingsRepository
	if v.config.Store != nil {
		repo = v.config.Store.Settings()
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	switch cmd {
	case "m":
		v.settings.Colormap = (v.settings.Colormap + 1) % len(render.Colormaps)
		persistSetting(repo, settingColormap, v.settings.Colormap)
		log.Printf("Colormap: %s", render.ColormapAt(v.settings.Colormap).Name)

	case "h":
		v.settings.HUD = !v.settings.HUD
		persistSetting(repo, settingHUD, v.settings.HUD)

	case "r":
		if v.rec != nil {
			v.finishRecordingLocked()
		} else {
			v.startRecordingLocked()
		}

	case "p":
		v.snapRequested = true

	case "f":
		v.settings.Alpha = math.Min(MaxAlpha, round1(v.settings.Alpha+AlphaStep))
		persistSetting(repo, settingAlpha, v.settings.Alpha)

	case "v":
		v.settings.Alpha = math.Max(MinAlpha, round1(v.settings.Alpha-AlphaStep))
		persistSetting(repo, settingAlpha, v.settings.Alpha)

	case "a":
		if v.settings.Blur < MaxBlur {
			v.settings.Blur++
		}
		persistSetting(repo, settingBlur, v.settings.Blur)

	case "z":
		if v.settings.Blur > 0 {
			v.settings.Blur--
		}
		persistSetting(repo, settingBlur, v.settings.Blur)

	case "s":
		if v.settings.Threshold < MaxThreshold {
			v.settings.Threshold++
		}
		persistSetting(repo, settingThreshold, v.settings.Threshold)

	case "x":
		if v.settings.Threshold > 0 {
			v.settings.Threshold--
		}
		persistSetting(repo, settingThreshold, v.settings.Threshold)

	// Scale changes are ignored while recording; the video writer is
	// locked to the dimensions it was opened with.
	case "d":
		if v.rec == nil && v.settings.Scale < MaxScale {
			v.settings.Scale++
			persistSetting(repo, settingScale, v.settings.Scale)
		}

	case "c":
		if v.rec == nil && v.settings.Scale > MinScale {
			v.settings.Scale--
			persistSetting(repo, settingScale, v.settings.Scale)
		}

	default:
		return ErrUnknownCommand
	}

	return nil
}

// round1 keeps the contrast value at one decimal place after stepping.
func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
