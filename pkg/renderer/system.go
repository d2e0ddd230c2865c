package renderer

import "time"

// System is the per-frame state the host hands the renderer: output
// resolution, a clock value feeding the seed hash, and the count of frames
// accumulated since the camera last moved. StaticFrameIndex 0 means this is
// the first frame after a reset and the accumulation buffer's prior content
// must be discarded.
type System struct {
	Width            int
	Height           int
	Time             float64
	StaticFrameIndex uint32
}

// TexelSize returns the reciprocal of the resolution, the sub-pixel jitter
// scale
func (s System) TexelSize() (float64, float64) {
	return 1.0 / float64(s.Width), 1.0 / float64(s.Height)
}

// FrameTime derives the seed clock from wall time: milliseconds masked to 24
// bits, in seconds. The mask keeps the value small enough that the seed
// hash's cosine argument retains millisecond precision.
func FrameTime(now time.Time) float64 {
	return float64(now.UnixMilli()&0xFFFFFF) / 1000.0
}
