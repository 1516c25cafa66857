package raster

import (
	"image"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a frame's luminance in [0,1].
type Stats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Measure computes Rec. 709 luminance statistics over every pixel of img.
func Measure(img *image.NRGBA) Stats {
	b := img.Bounds()
	lum := make([]float64, 0, b.Dx()*b.Dy())
	s := Stats{Min: 1, Max: 0}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		row := img.Pix[off : off+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			l := (0.2126*float64(row[x]) + 0.7152*float64(row[x+1]) + 0.0722*float64(row[x+2])) / 255
			lum = append(lum, l)
			s.Min = min(s.Min, l)
			s.Max = max(s.Max, l)
		}
	}
	if len(lum) == 0 {
		return Stats{}
	}

	s.Mean, s.StdDev = stat.MeanStdDev(lum, nil)
	return s
}

