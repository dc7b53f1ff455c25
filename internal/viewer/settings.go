package viewer

import (
	"fmt"
	"log"
	"strconv"

	"github.com/ayusman/ushna/internal/store"
)

// Setting limits and steps.
const (
	MinAlpha     = 0.1
	MaxAlpha     = 3.0
	AlphaStep    = 0.1
	MaxBlur      = 10
	MaxThreshold = 20
	MinScale     = 1
	MaxScale     = 5
)

// Settings holds the mutable display settings of the viewer.
// Access goes through the Viewer's lock.
type Settings struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Scale     int     `json:"scale"`
	Alpha     float64 `json:"alpha"`
	Colormap  int     `json:"colormap"`
	Blur      int     `json:"blur"`
	Threshold int     `json:"threshold"`
	HUD       bool    `json:"hud"`
	Recording bool    `json:"recording"`
	Elapsed   string  `json:"elapsed"`
	SnapTime  string  `json:"snaptime"`
}

// DefaultSettings returns the viewer's startup settings.
func DefaultSettings() Settings {
	return Settings{
		Width:     256,
		Height:    192,
		Scale:     3,
		Alpha:     1.0,
		Threshold: 2,
		HUD:       true,
		Elapsed:   "00:00:00",
		SnapTime:  "None",
	}
}

// DisplayWidth returns the scaled output width.
func (s Settings) DisplayWidth() int {
	return s.Width * s.Scale
}

// DisplayHeight returns the scaled output height.
func (s Settings) DisplayHeight() int {
	return s.Height * s.Scale
}

// Persisted setting keys. Recording state and timestamps are session-local
// and deliberately not stored.
const (
	settingColormap  = "colormap"
	settingHUD       = "hud"
	settingAlpha     = "alpha"
	settingBlur      = "blur"
	settingThreshold = "threshold"
	settingScale     = "scale"
)

// restoreSettings overlays persisted values onto defaults. Unparseable or
// missing values keep their defaults.
func restoreSettings(repo *store.SettingsRepository, s *Settings) {
	saved, err := repo.All()
	if err != nil {
		log.Printf("Failed to load persisted settings: %v", err)
		return
	}

	if v, ok := saved[settingColormap]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			s.Colormap = n
		}
	}
	if v, ok := saved[settingHUD]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			s.HUD = b
		}
	}
	if v, ok := saved[settingAlpha]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= MinAlpha && f <= MaxAlpha {
			s.Alpha = f
		}
	}
	if v, ok := saved[settingBlur]; ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= MaxBlur {
			s.Blur = n
		}
	}
	if v, ok := saved[settingThreshold]; ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= MaxThreshold {
			s.Threshold = n
		}
	}
	if v, ok := saved[settingScale]; ok {
		if n, err := strconv.Atoi(v); err == nil && n >= MinScale && n <= MaxScale {
			s.Scale = n
		}
	}
}

// persistSetting writes one setting through the repository, logging rather
// than failing the triggering command on storage errors.
func persistSetting(repo *store.SettingsRepository, key string, value any) {
	if repo == nil {
		return
	}
	if err := repo.Set(key, fmt.Sprint(value)); err != nil {
		log.Printf("Failed to persist setting %s: %v", key, err)
	}
}
