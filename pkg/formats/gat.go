package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// GAT format errors.
var (
	ErrInvalidGATMagic       = errors.New("invalid GAT magic: expected 'GRAT'")
	ErrUnsupportedGATVersion = errors.New("unsupported GAT version")
	ErrTruncatedGATData      = errors.New("truncated GAT data")
	ErrInvalidGAT            = errors.New("invalid GAT")
)

// gatCellSize is the on-disk size of one cell: four heights and a type.
const gatCellSize = 20

// GATVersion represents the GAT file version.
type GATVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v GATVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// GATCellType is the walkability class of a cell.
type GATCellType uint32

// Cell types.
const (
	GATWalkable      GATCellType = 0
	GATBlocked       GATCellType = 1
	GATWater         GATCellType = 2
	GATWalkableWater GATCellType = 3
	GATSnipeable     GATCellType = 4
	GATBlockedSnipe  GATCellType = 5
)

var gatTypeNames = map[GATCellType]string{
	GATWalkable:      "Walkable",
	GATBlocked:       "Blocked",
	GATWater:         "Water",
	GATWalkableWater: "Walkable+Water",
	GATSnipeable:     "Snipeable",
	GATBlockedSnipe:  "Blocked+Snipe",
}

func (t GATCellType) String() string {
	if name, ok := gatTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", t)
}

// IsWalkable reports whether characters can stand on the cell.
func (t GATCellType) IsWalkable() bool {
	return t == GATWalkable || t == GATWalkableWater
}

// GATCell is one altitude cell. A ground tile spans 2x2 cells.
type GATCell struct {
	// Heights uses the same corner order and sign as GNDTile.Altitude.
	Heights [4]float32
	Type    GATCellType
}

// GAT is a parsed ground altitude table.
type GAT struct {
	Version GATVersion
	Width   uint32
	Height  uint32
	Cells   []GATCell
}

// GetCell returns the cell at (x, y), or nil out of bounds.
func (g *GAT) GetCell(x, y int) *GATCell {
	if x < 0 || y < 0 || x >= int(g.Width) || y >= int(g.Height) {
		return nil
	}
	return &g.Cells[y*int(g.Width)+x]
}

// CountByType returns the number of cells of each type.
func (g *GAT) CountByType() map[GATCellType]int {
	counts := make(map[GATCellType]int)
	for _, cell := range g.Cells {
		counts[cell.Type]++
	}
	return counts
}

// GetAltitudeRange returns the minimum and maximum corner altitude.
func (g *GAT) GetAltitudeRange() (lo, hi float32) {
	if len(g.Cells) == 0 {
		return 0, 0
	}
	lo, hi = g.Cells[0].Heights[0], g.Cells[0].Heights[0]
	for _, cell := range g.Cells {
		for _, h := range cell.Heights {
			lo = min(lo, h)
			hi = max(hi, h)
		}
	}
	return lo, hi
}

// ParseGAT parses a GAT file from raw bytes.
func ParseGAT(data []byte) (*GAT, error) {
	if len(data) < 14 {
		return nil, ErrTruncatedGATData
	}
	if string(data[0:4]) != "GRAT" {
		return nil, ErrInvalidGATMagic
	}

	// Stored as [minor, major]; the cell layout is the same for 1.x to 3.x.
	version := GATVersion{Major: data[5], Minor: data[4]}
	if version.Major < 1 || version.Major > 3 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGATVersion, version)
	}

	width := binary.LittleEndian.Uint32(data[6:])
	height := binary.LittleEndian.Uint32(data[10:])
	if width == 0 || height == 0 || width > 4096 || height > 4096 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidGAT, width, height)
	}

	count := int(width * height)
	if len(data)-14 < count*gatCellSize {
		return nil, fmt.Errorf("%w: %d cells need %d bytes, have %d",
			ErrTruncatedGATData, count, count*gatCellSize, len(data)-14)
	}

	gat := &GAT{
		Version: version,
		Width:   width,
		Height:  height,
		Cells:   make([]GATCell, count),
	}
	r := bytes.NewReader(data[14:])
	if err := binary.Read(r, binary.LittleEndian, gat.Cells); err != nil {
		return nil, fmt.Errorf("%w: reading cells: %v", ErrTruncatedGATData, err)
	}
	return gat, nil
}

// ParseGATFile parses a GAT file from disk.
func ParseGATFile(path string) (*GAT, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading GAT file: %w", err)
	}
	return ParseGAT(data)
}

// MarshalGAT serializes a GAT into its on-disk layout.
func MarshalGAT(g *GAT) ([]byte, error) {
	if g.Width == 0 || g.Height == 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidGAT, g.Width, g.Height)
	}
	if len(g.Cells) != int(g.Width*g.Height) {
		return nil, fmt.Errorf("%w: %d cells for %dx%d grid", ErrInvalidGAT, len(g.Cells), g.Width, g.Height)
	}

	buf := bytes.NewBuffer(make([]byte, 0, 14+len(g.Cells)*gatCellSize))
	buf.WriteString("GRAT")
	buf.WriteByte(g.Version.Minor)
	buf.WriteByte(g.Version.Major)
	w := &leWriter{buf: buf}
	w.put(g.Width)
	w.put(g.Height)
	w.put(g.Cells)
	if w.err != nil {
		return nil, w.err
	}
	return buf.Bytes(), nil
}

// WriteGATFile serializes g and writes it to path.
func WriteGATFile(path string, g *GAT) error {
	data, err := MarshalGAT(g)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing GAT file: %w", err)
	}
	return nil
}
