package geometry

import "github.com/TioT2/p-tr/pkg/core"

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point  core.Vec3 // A point on the plane
	Normal core.Vec3 // Normal vector (normalized on construction)
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3) *Plane {
	return &Plane{Point: point, Normal: normal.Normalize()}
}

// Intersect solves for the signed distance to the plane along the ray. There
// is no special case for a parallel ray: the division yields ±Inf (or NaN),
// which either fails the t > 0 check here or loses every nearest-hit
// comparison downstream.
func (p *Plane) Intersect(ray core.Ray) (Hit, bool) {
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / ray.Direction.Dot(p.Normal)
	if t <= 0 {
		return Hit{}, false
	}
	return Hit{T: t, Normal: p.Normal}, true
}
