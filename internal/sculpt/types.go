// Package sculpt implements brush-based terrain sculpting and alpha-map
// painting with per-gesture undo records.
//
// All calls into a ToolController must come from one goroutine (the scene
// goroutine). Collaborators are reached only through the Terrain,
// AlphaBuffer and Consumer interfaces.
package sculpt

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-sculpt/pkg/math"
)

// ErrUnsupportedFormat is returned when an alpha buffer uses a pixel layout
// the painter cannot address.
var ErrUnsupportedFormat = errors.New("unsupported pixel format")

// Input classifies the pointer button that drives a gesture.
type Input int

const (
	InputNone Input = iota
	InputPrimary
	InputSecondary
	InputSecondaryWithModifier
)

// String returns a readable name for the input.
func (in Input) String() string {
	switch in {
	case InputPrimary:
		return "primary"
	case InputSecondary:
		return "secondary"
	case InputSecondaryWithModifier:
		return "secondary+modifier"
	default:
		return "none"
	}
}

// ParseInput converts a name produced by Input.String back into an Input.
func ParseInput(s string) (Input, error) {
	switch s {
	case "primary":
		return InputPrimary, nil
	case "secondary":
		return InputSecondary, nil
	case "secondary+modifier", "secondary_with_modifier":
		return InputSecondaryWithModifier, nil
	}
	return InputNone, fmt.Errorf("unknown input %q", s)
}

// CellKey addresses one heightmap sample in terrain grid coordinates.
// Edits within a gesture are deduplicated on it.
type CellKey struct {
	X, Z int
}

// Terrain is the heightmap collaborator edited by the sculpt tools.
// Heights are in local units; LocalScale converts them to world units.
type Terrain interface {
	// HeightAt returns NaN for cells outside the grid.
	HeightAt(cell CellKey) float32
	// SetHeights writes heights[i] into cells[i].
	SetHeights(cells []CellKey, heights []float32)
	// GridBounds returns the inclusive range of valid cells.
	GridBounds() (min, max CellKey)
	LocalScale() math.Vec3
	WorldTranslation() math.Vec3
	// UpdateModelBound refreshes collision and picking bounds after a write.
	UpdateModelBound()
}

// PixelFormat is the byte layout of an alpha buffer.
type PixelFormat int

const (
	FormatUnknown PixelFormat = iota
	FormatRGBA8
	FormatABGR8
)

// String returns the format name.
func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatABGR8:
		return "ABGR8"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// AlphaBuffer is the blend-weight texture collaborator edited by painting.
type AlphaBuffer interface {
	// Data returns the top mip level as interleaved 4-byte pixels.
	Data() []byte
	Size() (width, height int)
	Format() PixelFormat
	IncrementChange()
	DecrementChanges()
	SetUpdateNeeded()
}

// Color is a normalized RGBA pixel.
type Color [4]float32

// Tile is one paintable terrain: its heightmap and the alpha maps that hold
// its texture layer weights, four layers per map.
type Tile struct {
	Terrain   Terrain
	AlphaMaps []AlphaBuffer
}

// AlphaMap returns the buffer and channel that hold weights for layer.
// The buffer is nil when the tile has no map for that layer.
func (t Tile) AlphaMap(layer int) (AlphaBuffer, int) {
	if layer < 0 {
		return nil, 0
	}
	idx := layer / 4
	if idx >= len(t.AlphaMaps) {
		return nil, 0
	}
	return t.AlphaMaps[idx], layer % 4
}

// worldToLocal converts a world position into terrain grid space.
func worldToLocal(t Terrain, p math.Vec3) math.Vec3 {
	return p.Sub(t.WorldTranslation()).Div(t.LocalScale())
}
