package geometry

import "github.com/TioT2/p-tr/pkg/core"

// BoundedPlane couples an infinite plane with a coarse bounding box. The box
// runs first as a cheap boolean rejection; only rays that pass it reach the
// plane test. Rays striking the plane outside the box are therefore treated
// as misses, which bounds the plane's effective extent.
type BoundedPlane struct {
	Plane  *Plane
	Bounds *Box
}

// NewBoundedPlane creates a plane guarded by the given bounding box
func NewBoundedPlane(point, normal core.Vec3, bounds *Box) *BoundedPlane {
	return &BoundedPlane{
		Plane:  NewPlane(point, normal),
		Bounds: bounds,
	}
}

// Intersect applies the box rejection and falls through to the plane test
func (bp *BoundedPlane) Intersect(ray core.Ray) (Hit, bool) {
	if !bp.Bounds.IntersectFast(ray) {
		return Hit{}, false
	}
	return bp.Plane.Intersect(ray)
}
