// Package thermal decodes temperature data from the raw sensor payload of
// a TC001-style USB thermal camera.
//
// The camera delivers two bytes per pixel. In the thermal half of the frame
// the pair encodes an absolute temperature in units of 1/64 Kelvin:
//
//	kelvin = (lo + hi*256) / 64
package thermal

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrShortBuffer is returned when the thermal buffer is smaller than
// width*height pixels.
var ErrShortBuffer = errors.New("thermal buffer too short")

// Temp converts one thermal pixel to degrees Celsius, rounded to two
// decimal places.
func Temp(lo, hi byte) float64 {
	c := (float64(lo)+float64(hi)*256)/64 - 273.15
	return math.Round(c*100) / 100
}

// Reading holds the decoded temperature statistics of one thermal frame.
// Positions are in sensor coordinates.
type Reading struct {
	Center float64     `json:"center"`
	Min    float64     `json:"min"`
	MinPos image.Point `json:"min_pos"`
	Max    float64     `json:"max"`
	MaxPos image.Point `json:"max_pos"`
	Avg    float64     `json:"avg"`
}

// Stats decodes the thermal half of a raw frame. data is the interleaved
// lo/hi byte stream, width*height pixels, two bytes each.
func Stats(data []byte, width, height int) (Reading, error) {
	if width <= 0 || height <= 0 {
		return Reading{}, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if len(data) < width*height*2 {
		return Reading{}, fmt.Errorf("%w: have %d bytes, need %d", ErrShortBuffer, len(data), width*height*2)
	}

	var (
		minIdx, maxIdx int
		minHi          = 256
		maxHi          = -1
		sumLo, sumHi   uint64
	)

	n := width * height
	for i := 0; i < n; i++ {
		lo := int(data[i*2])
		hi := int(data[i*2+1])

		// Extremes follow the high byte only; ties keep the first pixel.
		if hi > maxHi {
			maxHi = hi
			maxIdx = i
		}
		if hi < minHi {
			minHi = hi
			minIdx = i
		}

		sumLo += uint64(lo)
		sumHi += uint64(hi)
	}

	centerIdx := (height/2)*width + width/2
	avg := (float64(sumLo)/float64(n)+float64(sumHi)/float64(n)*256)/64 - 273.15

	return Reading{
		Center: Temp(data[centerIdx*2], data[centerIdx*2+1]),
		Min:    Temp(data[minIdx*2], data[minIdx*2+1]),
		MinPos: image.Pt(minIdx%width, minIdx/width),
		Max:    Temp(data[maxIdx*2], data[maxIdx*2+1]),
		MaxPos: image.Pt(maxIdx%width, maxIdx/width),
		Avg:    math.Round(avg*100) / 100,
	}, nil
}
