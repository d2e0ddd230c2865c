package core

import "math"

// Seed hash constants. Empirically chosen; neighbouring pixels can still land
// on correlated seeds, which shows up as faint seams that accumulation washes
// out over a few frames.
const (
	seedScaleU = 4357
	seedScaleV = 8647
	seedScaleT = 13487
	seedBiasT  = 2
)

// Sampler yields the random draws a light path or pixel jitter needs
type Sampler interface {
	Float64() float64
	UnitVector() Vec3
}

// RNG is a xorshift32 generator implementing Sampler. A value lives on the
// stack of a single pixel evaluation; it is never shared between pixels or
// kept across frames.
type RNG struct {
	state uint32
}

// NewRNG creates a generator from a raw 32-bit seed. Zero is a fixed point of
// the xorshift transform, so it is replaced with a nonzero word.
func NewRNG(seed uint32) *RNG {
	if seed == 0 {
		seed = 0x9E3779B9
	}
	return &RNG{state: seed}
}

// PixelSeed derives the per-pixel seed from the normalized pixel coordinate
// and the frame time in seconds. The product wraps mod 2^32.
func PixelSeed(u, v, time float64) uint32 {
	a := uint32(math.Floor(u * seedScaleU))
	b := uint32(math.Floor(v * seedScaleV))
	c := uint32(math.Floor((math.Cos(time) + seedBiasT) * seedScaleT))
	return a * b * c
}

// Uint32 advances the generator and returns the next 32-bit word.
func (r *RNG) Uint32() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Float64 returns the next sample mapped onto the unit interval by dividing
// by 2^32 - 1. Only the all-ones word reaches 1.0 exactly.
func (r *RNG) Float64() float64 {
	return float64(r.Uint32()) / float64(math.MaxUint32)
}

// UnitVector returns a direction uniformly distributed on the unit sphere.
func (r *RNG) UnitVector() Vec3 {
	theta := 2 * math.Pi * r.Float64()
	phi := math.Acos(1 - 2*r.Float64())
	sinPhi := math.Sin(phi)
	return Vec3{
		X: sinPhi * math.Cos(theta),
		Y: sinPhi * math.Sin(theta),
		Z: math.Cos(phi),
	}
}
