// Package render converts raw thermal frames into false-color heatmap
// images with measurement overlays.
package render

import "gocv.io/x/gocv"

// gocv names colormaps only up to Parula; the newer perceptually uniform
// maps keep their OpenCV enum values.
const (
	colormapMagma   gocv.ColormapTypes = 13
	colormapInferno gocv.ColormapTypes = 14
	colormapPlasma  gocv.ColormapTypes = 15
	colormapViridis gocv.ColormapTypes = 16
)

// Colormap pairs an OpenCV colormap with its display name.
type Colormap struct {
	ID   gocv.ColormapTypes
	Name string
	// Inverted maps get an extra BGR->RGB swap after lookup.
	Inverted bool
}

// Colormaps is the cycle order for the colormap command.
var Colormaps = []Colormap{
	{gocv.ColormapJet, "Jet", false},
	{gocv.ColormapHot, "Hot", false},
	{colormapMagma, "Magma", false},
	{colormapInferno, "Inferno", false},
	{colormapPlasma, "Plasma", false},
	{gocv.ColormapBone, "Bone", false},
	{gocv.ColormapSpring, "Spring", false},
	{gocv.ColormapAutumn, "Autumn", false},
	{colormapViridis, "Viridis", false},
	{gocv.ColormapParula, "Parula", false},
	{gocv.ColormapRainbow, "Inv Rainbow", true},
}

// ColormapAt returns the colormap for an index, wrapping around the table.
func ColormapAt(index int) Colormap {
	n := len(Colormaps)
	return Colormaps[((index%n)+n)%n]
}
