package geometry

import (
	"math"

	"github.com/TioT2/p-tr/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

// Intersect tests the ray against the sphere by projecting the center onto
// the ray. A hit needs the closest approach to lie ahead of the origin and
// its perpendicular offset to be within the radius; both checks run before
// the square root, which would otherwise see a negative argument on a miss.
func (s *Sphere) Intersect(ray core.Ray) (Hit, bool) {
	oc := s.Center.Subtract(ray.Origin)
	projLen := oc.Dot(ray.Direction)
	offsetSq := oc.LengthSquared() - projLen*projLen

	if projLen <= 0 || offsetSq > s.Radius*s.Radius {
		return Hit{}, false
	}

	t := projLen - math.Sqrt(s.Radius*s.Radius-offsetSq)
	normal := ray.At(t).Subtract(s.Center).Multiply(1.0 / s.Radius)
	return Hit{T: t, Normal: normal}, true
}
