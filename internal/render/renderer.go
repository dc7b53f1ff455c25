package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/ushna/internal/thermal"
)

// Overlay colors. gocv translates color.RGBA to OpenCV's BGR scalar.
var (
	colorWhite  = color.RGBA{R: 255, G: 255, B: 255}
	colorBlack  = color.RGBA{}
	colorYellow = color.RGBA{R: 255, G: 255}
	colorRed    = color.RGBA{R: 255}
	colorBlue   = color.RGBA{B: 255}
	colorRecRed = color.RGBA{R: 255, G: 40, B: 40}
)

// Options controls one heatmap render pass.
type Options struct {
	Alpha     float64 // contrast multiplier
	Colormap  int     // index into Colormaps
	Blur      int     // box blur radius, 0 disables
	Scale     int     // display upscaling factor
	Threshold int     // degrees above/below average before markers appear
	HUD       bool
	Recording bool
	Elapsed   string // recording elapsed time for the HUD
	SnapTime  string // last snapshot time for the HUD
}

// Heatmap renders the visual half of a raw frame into a false-color
// display image and draws the measurement overlay from reading.
// The caller owns the returned Mat.
func Heatmap(visual *gocv.Mat, reading thermal.Reading, opts Options) (gocv.Mat, error) {
	if visual == nil || visual.Empty() {
		return gocv.Mat{}, errors.New("empty visual frame")
	}
	if opts.Scale < 1 {
		opts.Scale = 1
	}

	// YUYV to BGR
	bgr := gocv.NewMat()
	gocv.CvtColor(*visual, &bgr, gocv.ColorYUVToBGRYUY2)

	// Contrast
	scaled := gocv.NewMat()
	bgr.ConvertToWithParams(&scaled, gocv.MatTypeCV8UC3, float32(opts.Alpha), 0)
	bgr.Close()

	// Bicubic upscale to display size
	dispW := visual.Cols() * opts.Scale
	dispH := visual.Rows() * opts.Scale
	resized := gocv.NewMat()
	gocv.Resize(scaled, &resized, image.Pt(dispW, dispH), 0, 0, gocv.InterpolationCubic)
	scaled.Close()

	// Optional smoothing
	if opts.Blur > 0 {
		blurred := gocv.NewMat()
		gocv.Blur(resized, &blurred, image.Pt(opts.Blur, opts.Blur))
		resized.Close()
		resized = blurred
	}

	cm := ColormapAt(opts.Colormap)
	heatmap := gocv.NewMat()
	gocv.ApplyColorMap(resized, &heatmap, cm.ID)
	resized.Close()

	if cm.Inverted {
		swapped := gocv.NewMat()
		gocv.CvtColor(heatmap, &swapped, gocv.ColorBGRToRGB)
		heatmap.Close()
		heatmap = swapped
	}

	drawOverlay(&heatmap, reading, cm.Name, opts)

	return heatmap, nil
}

// drawOverlay draws the crosshair, temperature markers and HUD onto the
// rendered heatmap.
func drawOverlay(heatmap *gocv.Mat, reading thermal.Reading, cmapName string, opts Options) {
	center := image.Pt(heatmap.Cols()/2, heatmap.Rows()/2)

	// Crosshair: white stroke with a black core
	for _, offset := range []image.Point{{X: 0, Y: 20}, {X: 20, Y: 0}} {
		from := center.Sub(offset)
		to := center.Add(offset)
		gocv.Line(heatmap, from, to, colorWhite, 2)
		gocv.Line(heatmap, from, to, colorBlack, 1)
	}

	drawText(heatmap, tempLabel(reading.Center), image.Pt(center.X+10, center.Y-10), 0.45, colorYellow)

	if opts.HUD {
		drawHUD(heatmap, reading, cmapName, opts)
	}

	if reading.Max > reading.Avg+float64(opts.Threshold) {
		drawTempPoint(heatmap, reading.MaxPos.Mul(opts.Scale), reading.Max, colorRed)
	}

	if reading.Min < reading.Avg-float64(opts.Threshold) {
		drawTempPoint(heatmap, reading.MinPos.Mul(opts.Scale), reading.Min, colorBlue)
	}
}

// drawHUD draws the settings readout in the top-left corner.
func drawHUD(heatmap *gocv.Mat, reading thermal.Reading, cmapName string, opts Options) {
	gocv.Rectangle(heatmap, image.Rect(0, 0, 160, 120), colorBlack, -1)

	items := []struct {
		label string
		value string
	}{
		{"Avg Temp", tempLabel(reading.Avg)},
		{"Label Threshold", fmt.Sprintf("%d C", opts.Threshold)},
		{"Colormap", cmapName},
		{"Blur", fmt.Sprintf("%d", opts.Blur)},
		{"Scaling", fmt.Sprintf("%d", opts.Scale)},
		{"Contrast", fmt.Sprintf("%.1f", opts.Alpha)},
		{"Snapshot", opts.SnapTime},
		{"Recording", opts.Elapsed},
	}

	for i, item := range items {
		clr := colorYellow
		if item.label == "Recording" && opts.Recording {
			clr = colorRecRed
		}
		text := item.label + ": " + item.value
		drawText(heatmap, text, image.Pt(10, 14+i*14), 0.4, clr)
	}
}

// drawTempPoint marks a floating high or low temperature position.
func drawTempPoint(heatmap *gocv.Mat, pos image.Point, temp float64, clr color.RGBA) {
	gocv.Circle(heatmap, pos, 5, colorBlack, 2)
	gocv.Circle(heatmap, pos, 5, clr, -1)
	drawText(heatmap, tempLabel(temp), image.Pt(pos.X+10, pos.Y+5), 0.45, colorYellow)
}

// drawText draws text with a black shadow pass for legibility on any
// colormap background.
func drawText(img *gocv.Mat, text string, pos image.Point, scale float64, clr color.RGBA) {
	gocv.PutText(img, text, pos, gocv.FontHersheySimplex, scale, colorBlack, 2)
	gocv.PutText(img, text, pos, gocv.FontHersheySimplex, scale, clr, 1)
}

func tempLabel(t float64) string {
	return fmt.Sprintf("%.1f C", t)
}
