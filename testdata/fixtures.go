// Package testdata builds synthetic raw thermal frames for tests.
//
// A raw frame is double height: the top half is the visual YUYV image
// (luma in channel 0), the bottom half is thermal data (lo/hi temperature
// bytes per pixel, 1/64 Kelvin units).
package testdata

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"
)

// CelsiusRaw converts degrees Celsius to the sensor's raw 1/64 Kelvin value.
func CelsiusRaw(celsius float64) int {
	return int(math.Round((celsius + 273.15) * 64))
}

// RawFrameBytes builds the byte payload of a raw frame: width x height
// visual pixels with uniform luma followed by width x height thermal
// pixels at a uniform temperature value.
func RawFrameBytes(width, height int, luma byte, thermalValue int) []byte {
	data := make([]byte, width*height*4)

	for i := 0; i < width*height; i++ {
		data[i*2] = luma
		data[i*2+1] = 128 // neutral chroma
	}

	thermal := data[width*height*2:]
	for i := 0; i < width*height; i++ {
		thermal[i*2] = byte(thermalValue % 256)
		thermal[i*2+1] = byte(thermalValue / 256)
	}

	return data
}

// SetThermalPixel overwrites one thermal pixel of a full raw frame payload.
func SetThermalPixel(data []byte, width, height, x, y, value int) {
	thermal := data[width*height*2:]
	i := y*width + x
	thermal[i*2] = byte(value % 256)
	thermal[i*2+1] = byte(value / 256)
}

// SetLumaRegion fills a rectangle of the visual half with the given luma,
// useful for exercising the activity detector.
func SetLumaRegion(data []byte, width, x0, y0, x1, y1 int, luma byte) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			data[(y*width+x)*2] = luma
		}
	}
}

// RawFrameMat wraps a raw frame payload in a double-height CV_8UC2 Mat.
// The caller owns the returned Mat.
func RawFrameMat(width, height int, data []byte) (*gocv.Mat, error) {
	if len(data) != width*height*4 {
		return nil, fmt.Errorf("payload is %d bytes, want %d", len(data), width*height*4)
	}

	mat, err := gocv.NewMatFromBytes(height*2, width, gocv.MatTypeCV8UC2, data)
	if err != nil {
		return nil, fmt.Errorf("build raw frame mat: %w", err)
	}

	return &mat, nil
}

// UniformFrame is a convenience wrapper building a complete raw frame Mat
// with uniform luma and temperature.
func UniformFrame(width, height int, luma byte, celsius float64) (*gocv.Mat, error) {
	return RawFrameMat(width, height, RawFrameBytes(width, height, luma, CelsiusRaw(celsius)))
}
