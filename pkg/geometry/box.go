package geometry

import (
	"math"

	"github.com/TioT2/p-tr/pkg/core"
)

// Box is an axis-aligned box spanning the two corners Min and Max. Corners
// must satisfy Min <= Max on every axis.
type Box struct {
	Min core.Vec3 // Minimum corner
	Max core.Vec3 // Maximum corner
}

// NewBox creates a new axis-aligned box from its min and max corners
func NewBox(min, max core.Vec3) *Box {
	return &Box{Min: min, Max: max}
}

// IntersectFast reports whether the ray passes through the box, without
// computing where. It runs the same slab test as Intersect minus the normal
// bookkeeping and is used for coarse rejection ahead of more expensive
// tests. Parallel-axis divisions produce ±Inf slabs that the min/max
// comparisons handle without a special case.
func (b *Box) IntersectFast(ray core.Ray) bool {
	t1x := (b.Min.X - ray.Origin.X) / ray.Direction.X
	t2x := (b.Max.X - ray.Origin.X) / ray.Direction.X
	if t1x > t2x {
		t1x, t2x = t2x, t1x
	}
	t1y := (b.Min.Y - ray.Origin.Y) / ray.Direction.Y
	t2y := (b.Max.Y - ray.Origin.Y) / ray.Direction.Y
	if t1y > t2y {
		t1y, t2y = t2y, t1y
	}
	t1z := (b.Min.Z - ray.Origin.Z) / ray.Direction.Z
	t2z := (b.Max.Z - ray.Origin.Z) / ray.Direction.Z
	if t1z > t2z {
		t1z, t2z = t2z, t1z
	}

	tNear := math.Max(t1x, math.Max(t1y, t1z))
	tFar := math.Min(t2x, math.Min(t2y, t2z))
	return tFar >= tNear && tFar >= 0
}

// Intersect runs the slab test and returns the entry distance together with
// an axis-aligned face normal. The normal comes from whichever slab entry
// equals tNear; exact float comparison can match several axes at an edge or
// corner, or none at all, and the combined (or zero) normal is returned
// unchanged in those cases.
func (b *Box) Intersect(ray core.Ray) (Hit, bool) {
	t1x := (b.Min.X - ray.Origin.X) / ray.Direction.X
	t2x := (b.Max.X - ray.Origin.X) / ray.Direction.X
	if t1x > t2x {
		t1x, t2x = t2x, t1x
	}
	t1y := (b.Min.Y - ray.Origin.Y) / ray.Direction.Y
	t2y := (b.Max.Y - ray.Origin.Y) / ray.Direction.Y
	if t1y > t2y {
		t1y, t2y = t2y, t1y
	}
	t1z := (b.Min.Z - ray.Origin.Z) / ray.Direction.Z
	t2z := (b.Max.Z - ray.Origin.Z) / ray.Direction.Z
	if t1z > t2z {
		t1z, t2z = t2z, t1z
	}

	tNear := math.Max(t1x, math.Max(t1y, t1z))
	tFar := math.Min(t2x, math.Min(t2y, t2z))
	if tFar < tNear || tFar < 0 {
		return Hit{}, false
	}

	var normal core.Vec3
	if t1x == tNear {
		normal.X = faceSign(ray.Direction.X)
	}
	if t1y == tNear {
		normal.Y = faceSign(ray.Direction.Y)
	}
	if t1z == tNear {
		normal.Z = faceSign(ray.Direction.Z)
	}
	return Hit{T: tNear, Normal: normal}, true
}

// faceSign gives the outward normal component for the slab face a ray
// travelling along direction d enters through
func faceSign(d float64) float64 {
	if d > 0 {
		return -1
	}
	if d < 0 {
		return 1
	}
	return 0
}
