package geometry

import "github.com/TioT2/p-tr/pkg/core"

// Hit describes a ray-surface intersection. T is the distance along the ray
// and Normal the surface normal at the hit point. Fields carry no meaning
// when the accompanying ok result is false.
type Hit struct {
	T      float64
	Normal core.Vec3
}

// Surface is anything a ray can intersect. Implementations assume the ray
// direction is unit length.
type Surface interface {
	Intersect(ray core.Ray) (Hit, bool)
}
