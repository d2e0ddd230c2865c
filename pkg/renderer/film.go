package renderer

import (
	"image"
	"image/color"

	"github.com/TioT2/p-tr/pkg/core"
)

// Film is a float-precision render target: one RGBA value per pixel with the
// alpha channel unused. Accumulation sums live in films like this; the
// display film holds normalized radiance.
type Film struct {
	Width  int
	Height int
	Pix    []float64 // RGBA interleaved, stride 4
}

// NewFilm allocates a zeroed film
func NewFilm(width, height int) *Film {
	return &Film{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height*4),
	}
}

// At returns the RGB value at pixel (x, y)
func (f *Film) At(x, y int) core.Vec3 {
	i := (y*f.Width + x) * 4
	return core.Vec3{X: f.Pix[i], Y: f.Pix[i+1], Z: f.Pix[i+2]}
}

// Set stores an RGB value at pixel (x, y), leaving alpha untouched
func (f *Film) Set(x, y int, c core.Vec3) {
	i := (y*f.Width + x) * 4
	f.Pix[i], f.Pix[i+1], f.Pix[i+2] = c.X, c.Y, c.Z
}

// ToRGBA converts the film to an 8-bit image for display
func (f *Film) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, vec3ToColor(f.At(x, y)))
		}
	}
	return img
}

// vec3ToColor converts a radiance value to an 8-bit color with gamma
// correction (gamma = 2.0) and clamping
func vec3ToColor(v core.Vec3) color.RGBA {
	v = v.GammaCorrect(2.0).Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(255 * v.X),
		G: uint8(255 * v.Y),
		B: uint8(255 * v.Z),
		A: 255,
	}
}
