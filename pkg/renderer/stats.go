package renderer

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FrameStats summarizes the luminance distribution of a presented frame
type FrameStats struct {
	MeanLuminance   float64 // Mean pixel luminance
	LuminanceStdDev float64 // Sample standard deviation of pixel luminance
	MinLuminance    float64 // Darkest pixel
	MaxLuminance    float64 // Brightest pixel
}

// CollectStats computes luminance statistics over a film. The standard
// deviation shrinks as accumulation converges.
func CollectStats(film *Film) FrameStats {
	luminances := make([]float64, 0, film.Width*film.Height)
	for y := 0; y < film.Height; y++ {
		for x := 0; x < film.Width; x++ {
			luminances = append(luminances, film.At(x, y).Luminance())
		}
	}
	if len(luminances) == 0 {
		return FrameStats{}
	}

	mean, stdDev := stat.MeanStdDev(luminances, nil)
	return FrameStats{
		MeanLuminance:   mean,
		LuminanceStdDev: stdDev,
		MinLuminance:    floats.Min(luminances),
		MaxLuminance:    floats.Max(luminances),
	}
}
