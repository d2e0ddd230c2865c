package material

import "github.com/TioT2/p-tr/pkg/core"

// Material describes a surface to the tracer: a diffuse albedo plus a
// self-emission term. Lights are ordinary surfaces with nonzero emission.
type Material struct {
	Albedo   core.Vec3
	Emission core.Vec3
}

// Diffuse returns a non-emissive material with the given albedo
func Diffuse(albedo core.Vec3) Material {
	return Material{Albedo: albedo}
}

// Emissive returns a pure emitter. Its albedo is black, so a path that hits
// it collects the emission and carries no further reflected light.
func Emissive(emission core.Vec3) Material {
	return Material{Emission: emission}
}
