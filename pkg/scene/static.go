package scene

import (
	"github.com/TioT2/p-tr/pkg/core"
	"github.com/TioT2/p-tr/pkg/geometry"
	"github.com/TioT2/p-tr/pkg/material"
)

// Default camera pose for the static scene. Hosts start from this view and
// reset to it on demand.
var (
	DefaultCameraLocation = core.NewVec3(-3.2, 2.8, 0.3)
	DefaultCameraTarget   = core.NewVec3(-2.4, 2.4, -0.1)
	DefaultCameraUp       = core.NewVec3(0, 1, 0)
)

// DefaultCameraNear is the focal distance of the default pinhole camera
const DefaultCameraNear = 1.0

// groundExtent is the half-size of the box bounding the ground plane. Rays
// aimed at the plane beyond it are rejected before the plane test runs, so
// the ground effectively ends there.
const groundExtent = 100.0

// NewStaticScene builds the fixed scene this renderer exists to draw: one
// emissive sphere acting as the light, a diffuse sphere, a ground plane
// bounded by a coarse box, and a diffuse box. Geometry and materials are
// compile-time constants; there is no mutation API.
func NewStaticScene() *Scene {
	groundBounds := geometry.NewBox(
		core.NewVec3(-groundExtent, -0.1, -groundExtent),
		core.NewVec3(groundExtent, 0.1, groundExtent),
	)

	return &Scene{
		Objects: []Object{
			{
				Surface:  geometry.NewSphere(core.NewVec3(2, 4, -2), 1.0),
				Material: material.Emissive(core.NewVec3(8, 7.5, 7)),
			},
			{
				Surface:  geometry.NewSphere(core.NewVec3(0.5, 1, -1.5), 1.0),
				Material: material.Diffuse(core.NewVec3(0.85, 0.3, 0.25)),
			},
			{
				Surface:  geometry.NewBoundedPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), groundBounds),
				Material: material.Diffuse(core.NewVec3(0.75, 0.75, 0.7)),
			},
			{
				Surface:  geometry.NewBox(core.NewVec3(-2.2, 0, -2.6), core.NewVec3(-0.8, 1.0, -1.4)),
				Material: material.Diffuse(core.NewVec3(0.3, 0.45, 0.8)),
			},
		},
	}
}
