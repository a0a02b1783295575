package formats

import (
	"bytes"
	"fmt"
	"os"

	"github.com/Faultbox/midgard-sculpt/pkg/encoding"
)

// defaultTextureNameLen is the name field size used by the official tools.
const defaultTextureNameLen = 80

// MarshalGND serializes a GND back into its on-disk layout.
// The output parses with ParseGND into an equal structure.
func MarshalGND(g *GND) ([]byte, error) {
	if g.Width == 0 || g.Height == 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidGND, g.Width, g.Height)
	}
	if len(g.Tiles) != int(g.Width*g.Height) {
		return nil, fmt.Errorf("%w: %d tiles for %dx%d grid", ErrInvalidGND, len(g.Tiles), g.Width, g.Height)
	}

	nameLen := g.TextureNameLen
	if nameLen == 0 {
		nameLen = defaultTextureNameLen
	}
	cells := g.LightmapCells
	if cells == 0 {
		cells = 1
	}
	pixelCount := int(g.LightmapWidth * g.LightmapHeight * cells)

	buf := new(bytes.Buffer)
	buf.WriteString("GRGN")
	buf.WriteByte(g.Version.Major)
	buf.WriteByte(g.Version.Minor)

	w := &leWriter{buf: buf}
	w.put(g.Width)
	w.put(g.Height)
	w.put(g.Zoom)

	w.put(uint32(len(g.Textures)))
	w.put(nameLen)
	for i, name := range g.Textures {
		raw := encoding.UTF8ToEUCKR(name)
		if uint32(len(raw)) > nameLen {
			return nil, fmt.Errorf("%w: texture %d name %q exceeds %d bytes", ErrInvalidGND, i, name, nameLen)
		}
		field := make([]byte, nameLen)
		copy(field, raw)
		buf.Write(field)
	}

	w.put(uint32(len(g.Lightmaps)))
	w.put(g.LightmapWidth)
	w.put(g.LightmapHeight)
	w.put(cells)
	for i, lm := range g.Lightmaps {
		if len(lm.Brightness) != pixelCount || len(lm.ColorRGB) != pixelCount*3 {
			return nil, fmt.Errorf("%w: lightmap %d has %d/%d bytes, want %d/%d",
				ErrInvalidGND, i, len(lm.Brightness), len(lm.ColorRGB), pixelCount, pixelCount*3)
		}
		buf.Write(lm.Brightness)
		buf.Write(lm.ColorRGB)
	}

	w.put(uint32(len(g.Surfaces)))
	for _, s := range g.Surfaces {
		w.put(s.U)
		w.put(s.V)
		w.put(s.TextureID)
		w.put(s.LightmapID)
		buf.Write(s.Color[:])
	}

	for _, tile := range g.Tiles {
		w.put(tile.Altitude)
		w.put(tile.TopSurface)
		w.put(tile.FrontSurface)
		w.put(tile.RightSurface)
	}

	if w.err != nil {
		return nil, w.err
	}
	return buf.Bytes(), nil
}

// WriteGNDFile serializes g and writes it to path.
func WriteGNDFile(path string, g *GND) error {
	data, err := MarshalGND(g)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing GND file: %w", err)
	}
	return nil
}
