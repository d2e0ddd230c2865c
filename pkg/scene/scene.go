package scene

import (
	"github.com/TioT2/p-tr/pkg/core"
	"github.com/TioT2/p-tr/pkg/geometry"
	"github.com/TioT2/p-tr/pkg/material"
)

// Object pairs a surface with the material the tracer shades it with
type Object struct {
	Surface  geometry.Surface
	Material material.Material
}

// Intersection is the scene-level hit result: the nearest surface's geometry
// plus its material terms
type Intersection struct {
	T        float64
	Normal   core.Vec3
	Albedo   core.Vec3
	Emission core.Vec3
}

// Sentinel distance the nearest-hit scan starts from. Any real hit beats it;
// the non-finite distances degenerate primitive math can produce never do.
const noHitDistance = 1e30

// Scene is a fixed list of objects scanned linearly per ray
type Scene struct {
	Objects []Object
}

// Intersect returns the nearest hit along the ray. The strict less-than keeps
// the earliest object in scene order on an exact tie and discards ±Inf and
// NaN distances.
func (s *Scene) Intersect(ray core.Ray) (Intersection, bool) {
	nearest := Intersection{T: noHitDistance}
	found := false

	for _, obj := range s.Objects {
		hit, ok := obj.Surface.Intersect(ray)
		if !ok || !(hit.T < nearest.T) {
			continue
		}
		nearest = Intersection{
			T:        hit.T,
			Normal:   hit.Normal,
			Albedo:   obj.Material.Albedo,
			Emission: obj.Material.Emission,
		}
		found = true
	}

	return nearest, found
}
