package renderer

import (
	"math"

	"github.com/TioT2/p-tr/pkg/core"
)

// Camera is the pinhole projection the host supplies for a frame. Direction,
// Right and Up form the view basis. Right and Up double as the image plane's
// half-extent axes, so they are not required to be unit length.
type Camera struct {
	Location         core.Vec3
	Direction        core.Vec3
	Right            core.Vec3
	Up               core.Vec3
	Near             float64
	ProjectionWidth  float64
	ProjectionHeight float64
}

// NewLookAtCamera builds a camera at location looking toward target, with the
// projection plane sized so the smaller image dimension spans [-1,1] and the
// larger one is stretched by the aspect ratio.
func NewLookAtCamera(location, target, approxUp core.Vec3, near float64, width, height int) Camera {
	direction := target.Subtract(location).Normalize()
	right := direction.Cross(approxUp).Normalize()
	up := right.Cross(direction)

	minDim := math.Min(float64(width), float64(height))
	return Camera{
		Location:         location,
		Direction:        direction,
		Right:            right,
		Up:               up,
		Near:             near,
		ProjectionWidth:  float64(width) / minDim,
		ProjectionHeight: float64(height) / minDim,
	}
}

// Ray maps a normalized pixel coordinate in [0,1]^2 to a primary ray. Row 0
// is the top of the image, so v flips onto the [-1,1] view plane.
func (c Camera) Ray(u, v float64) core.Ray {
	x := 2*u - 1
	y := 1 - 2*v

	dir := c.Direction.Multiply(c.Near).
		Add(c.Right.Multiply(c.ProjectionWidth * x)).
		Add(c.Up.Multiply(c.ProjectionHeight * y)).
		Normalize()

	return core.NewRay(c.Location, dir)
}
