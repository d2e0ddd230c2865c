package integrator

import (
	"math"

	"github.com/TioT2/p-tr/pkg/core"
	"github.com/TioT2/p-tr/pkg/scene"
)

// maxBounces bounds every path. There is no Russian roulette, so a path ends
// early only by escaping the scene.
const maxBounces = 8

// originOffset nudges each bounce origin off the surface along the normal so
// the next segment cannot immediately re-hit the surface it left
const originOffset = 0.001

// Scene is the integrator's view of the world: the nearest-hit query
type Scene interface {
	Intersect(ray core.Ray) (scene.Intersection, bool)
}

// PathTracer estimates radiance along rays by stochastic bouncing
type PathTracer struct {
	scene Scene
}

// NewPathTracer creates a path tracer over the given scene
func NewPathTracer(s Scene) *PathTracer {
	return &PathTracer{scene: s}
}

// Trace follows one light path from the given ray and returns its radiance
// estimate. Each bounce collects the hit surface's emission weighted by the
// path throughput, then continues in a direction drawn uniformly on the
// sphere and flipped into the normal's hemisphere. The throughput picks up
// albedo times the cosine term times pi, the compensation factor for
// sampling the hemisphere uniformly instead of cosine-weighted.
func (pt *PathTracer) Trace(ray core.Ray, sampler core.Sampler) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)
	var light core.Vec3

	for bounce := 0; bounce < maxBounces; bounce++ {
		hit, ok := pt.scene.Intersect(ray)
		if !ok {
			break
		}

		light = light.Add(hit.Emission.MultiplyVec(throughput))

		origin := ray.At(hit.T).Add(hit.Normal.Multiply(originOffset))
		dir := sampler.UnitVector()
		if dir.Dot(hit.Normal) < 0 {
			dir = dir.Multiply(-1)
		}

		throughput = throughput.
			MultiplyVec(hit.Albedo).
			Multiply(math.Max(hit.Normal.Dot(dir), 0) * math.Pi)
		ray = core.NewRay(origin, dir)
	}

	return light
}
