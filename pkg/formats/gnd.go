package formats

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/Faultbox/midgard-sculpt/pkg/encoding"
)

// GND format errors.
var (
	ErrInvalidGNDMagic       = errors.New("invalid GND magic: expected 'GRGN'")
	ErrUnsupportedGNDVersion = errors.New("unsupported GND version")
	ErrTruncatedGNDData      = errors.New("truncated GND data")
	ErrInvalidGND            = errors.New("invalid GND")
)

// GNDVersion represents the GND file version.
type GNDVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v GNDVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// GNDSurface represents a textured surface with UV coordinates.
type GNDSurface struct {
	U          [4]float32 // Texture U coordinates for 4 corners
	V          [4]float32 // Texture V coordinates for 4 corners
	TextureID  int16      // -1 = no texture
	LightmapID int16
	Color      [4]uint8 // BGRA vertex color
}

// Tile corner indices into GNDTile.Altitude.
// Bottom corners sit on the tile's +Z edge.
const (
	CornerBottomLeft = iota
	CornerBottomRight
	CornerTopLeft
	CornerTopRight
)

// GNDTile represents a single tile in the ground mesh.
type GNDTile struct {
	Altitude     [4]float32 // Corner heights indexed by the Corner* constants
	TopSurface   int32      // Surface ID for top face (-1 = none)
	FrontSurface int32      // Surface ID for front face (-1 = none)
	RightSurface int32      // Surface ID for right face (-1 = none)
}

// GNDLightmap represents lightmap data for a surface.
type GNDLightmap struct {
	Brightness []uint8 // Grayscale brightness values
	ColorRGB   []uint8 // RGB color values
}

// GND represents a parsed Ground file.
type GND struct {
	Version        GNDVersion
	Width          uint32
	Height         uint32
	Zoom           float32
	Textures       []string
	TextureNameLen uint32 // Fixed on-disk size of each texture name
	Lightmaps      []GNDLightmap
	LightmapWidth  uint32
	LightmapHeight uint32
	LightmapCells  uint32
	Surfaces       []GNDSurface
	Tiles          []GNDTile
}

// GetTile returns the tile at the given coordinates.
// Returns nil if coordinates are out of bounds.
func (g *GND) GetTile(x, y int) *GNDTile {
	if x < 0 || y < 0 || x >= int(g.Width) || y >= int(g.Height) {
		return nil
	}
	return &g.Tiles[y*int(g.Width)+x]
}

// GetAltitudeRange returns the minimum and maximum corner altitude.
func (g *GND) GetAltitudeRange() (lo, hi float32) {
	if len(g.Tiles) == 0 {
		return 0, 0
	}
	lo, hi = g.Tiles[0].Altitude[0], g.Tiles[0].Altitude[0]
	for _, tile := range g.Tiles {
		for _, h := range tile.Altitude {
			lo = min(lo, h)
			hi = max(hi, h)
		}
	}
	return lo, hi
}

// gndHeader is the fixed part following magic and version.
type gndHeader struct {
	Width          uint32
	Height         uint32
	Zoom           float32
	TextureCount   uint32
	TextureNameLen uint32
}

type gndLightmapHeader struct {
	Count  uint32
	Width  uint32
	Height uint32
	Cells  uint32
}

// On-disk sizes of GNDSurface and GNDTile.
const (
	gndSurfaceSize = 40
	gndTileSize    = 28
	maxGNDSize     = 1024
)

// ParseGND parses a GND file from raw bytes. Versions 1.5 to 1.9 share the
// layout read here.
func ParseGND(data []byte) (*GND, error) {
	if len(data) < 6 {
		return nil, ErrTruncatedGNDData
	}
	if string(data[0:4]) != "GRGN" {
		return nil, ErrInvalidGNDMagic
	}
	version := GNDVersion{Major: data[4], Minor: data[5]}
	if version.Major != 1 || version.Minor < 5 || version.Minor > 9 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGNDVersion, version)
	}

	r := &leReader{r: bytes.NewReader(data[6:]), truncated: ErrTruncatedGNDData}

	var hdr gndHeader
	r.get("header", &hdr)
	if r.err != nil {
		return nil, r.err
	}
	if hdr.Width == 0 || hdr.Height == 0 || hdr.Width > maxGNDSize || hdr.Height > maxGNDSize {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidGND, hdr.Width, hdr.Height)
	}

	gnd := &GND{
		Version:        version,
		Width:          hdr.Width,
		Height:         hdr.Height,
		Zoom:           hdr.Zoom,
		TextureNameLen: hdr.TextureNameLen,
	}

	if !r.fits("textures", uint64(hdr.TextureCount)*uint64(hdr.TextureNameLen)) {
		return nil, r.err
	}
	gnd.Textures = make([]string, hdr.TextureCount)
	for i := range gnd.Textures {
		gnd.Textures[i] = encoding.FixedStringToUTF8(r.bytes("texture name", int(hdr.TextureNameLen)))
	}

	var lm gndLightmapHeader
	r.get("lightmap header", &lm)
	gnd.LightmapWidth = lm.Width
	gnd.LightmapHeight = lm.Height
	gnd.LightmapCells = lm.Cells
	pixels := uint64(lm.Width) * uint64(lm.Height) * uint64(lm.Cells)
	if !r.fits("lightmaps", uint64(lm.Count)*pixels*4) {
		return nil, r.err
	}
	gnd.Lightmaps = make([]GNDLightmap, lm.Count)
	for i := range gnd.Lightmaps {
		gnd.Lightmaps[i].Brightness = r.bytes("lightmap brightness", int(pixels))
		gnd.Lightmaps[i].ColorRGB = r.bytes("lightmap color", int(pixels*3))
	}

	var surfaceCount uint32
	r.get("surface count", &surfaceCount)
	if !r.fits("surfaces", uint64(surfaceCount)*gndSurfaceSize) {
		return nil, r.err
	}
	gnd.Surfaces = make([]GNDSurface, surfaceCount)
	r.get("surfaces", gnd.Surfaces)

	gnd.Tiles = make([]GNDTile, hdr.Width*hdr.Height)
	if !r.fits("tiles", uint64(len(gnd.Tiles))*gndTileSize) {
		return nil, r.err
	}
	r.get("tiles", gnd.Tiles)

	if r.err != nil {
		return nil, r.err
	}
	return gnd, nil
}

// ParseGNDFile parses a GND file from disk.
func ParseGNDFile(path string) (*GND, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading GND file: %w", err)
	}
	return ParseGND(data)
}

// CountSurfacesByTexture returns the count of surfaces using each texture.
func (g *GND) CountSurfacesByTexture() map[int]int {
	counts := make(map[int]int)
	for _, surface := range g.Surfaces {
		if surface.TextureID >= 0 {
			counts[int(surface.TextureID)]++
		}
	}
	return counts
}
