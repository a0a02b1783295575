// Package terrain provides the editable heightmap of a map and its
// conversion to and from GND ground data.
package terrain

import "github.com/Faultbox/midgard-sculpt/pkg/math"

// Bounds holds the axis-aligned bounding box of the terrain in world space.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Heightmap is a grid of vertex heights. Heights are stored in local units
// and converted to world units by Scale; grid cell (x, z) lies at world
// position (x*Scale.X, h*Scale.Y, z*Scale.Z) + Translation.
type Heightmap struct {
	Altitudes []float32 // Row-major [z*Width + x]
	Width     int       // Vertices along X
	Depth     int       // Vertices along Z
	// OffsetX and OffsetZ are the cell coordinates of vertex (0, 0).
	OffsetX int
	OffsetZ int

	Scale       math.Vec3
	Translation math.Vec3
	Bounds      Bounds

	// Revision counts model bound refreshes.
	Revision int

	// built holds the altitudes as loaded, for write-back.
	built []float32
}
