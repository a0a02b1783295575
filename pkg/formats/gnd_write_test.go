package formats

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMarshalGND_RoundTrip(t *testing.T) {
	gnd, err := ParseGND(flatRaw(3, 2, "grass.bmp", "rock.bmp").bytes())
	if err != nil {
		t.Fatalf("ParseGND failed: %v", err)
	}

	gnd.Tiles[4].Altitude = [4]float32{-1.5, -2, 3, 4.25}
	gnd.Tiles[4].TopSurface = 0
	gnd.Surfaces = []GNDSurface{{
		U:          [4]float32{0, 1, 0, 1},
		V:          [4]float32{0, 0, 1, 1},
		TextureID:  1,
		LightmapID: -1,
		Color:      [4]uint8{1, 2, 3, 4},
	}}

	data, err := MarshalGND(gnd)
	if err != nil {
		t.Fatalf("MarshalGND failed: %v", err)
	}

	again, err := ParseGND(data)
	if err != nil {
		t.Fatalf("ParseGND of marshaled data failed: %v", err)
	}

	if !reflect.DeepEqual(gnd, again) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", again, gnd)
	}
}

func TestMarshalGND_WithLightmaps(t *testing.T) {
	gnd := &GND{
		Version:        GNDVersion{1, 7},
		Width:          1,
		Height:         1,
		Zoom:           10,
		LightmapWidth:  2,
		LightmapHeight: 2,
		LightmapCells:  1,
		Lightmaps: []GNDLightmap{{
			Brightness: []uint8{1, 2, 3, 4},
			ColorRGB:   make([]uint8, 12),
		}},
		Tiles: []GNDTile{{TopSurface: -1, FrontSurface: -1, RightSurface: -1}},
	}

	data, err := MarshalGND(gnd)
	if err != nil {
		t.Fatalf("MarshalGND failed: %v", err)
	}
	again, err := ParseGND(data)
	if err != nil {
		t.Fatalf("ParseGND failed: %v", err)
	}
	if again.TextureNameLen != defaultTextureNameLen {
		t.Errorf("expected default name length %d, got %d", defaultTextureNameLen, again.TextureNameLen)
	}
	if !reflect.DeepEqual(again.Lightmaps, gnd.Lightmaps) {
		t.Errorf("lightmaps mismatch: got %+v", again.Lightmaps)
	}
}

func TestMarshalGND_KoreanTextureName(t *testing.T) {
	name := "유저인터페이스\\풀.bmp"
	gnd := &GND{
		Version:  GNDVersion{1, 7},
		Width:    1,
		Height:   1,
		Zoom:     10,
		Textures: []string{name},
		Tiles:    []GNDTile{{TopSurface: -1, FrontSurface: -1, RightSurface: -1}},
	}
	data, err := MarshalGND(gnd)
	if err != nil {
		t.Fatalf("MarshalGND failed: %v", err)
	}
	// Names are stored as EUC-KR, not UTF-8.
	if bytes.Contains(data, []byte(name)) {
		t.Error("texture name written as UTF-8")
	}
	again, err := ParseGND(data)
	if err != nil {
		t.Fatalf("ParseGND failed: %v", err)
	}
	if again.Textures[0] != name {
		t.Errorf("texture name = %q, want %q", again.Textures[0], name)
	}
}

func TestMarshalGND_Invalid(t *testing.T) {
	tests := []struct {
		name string
		gnd  *GND
	}{
		{"zero size", &GND{}},
		{"tile count mismatch", &GND{Width: 2, Height: 2, Tiles: make([]GNDTile, 3)}},
		{"name too long", &GND{Width: 1, Height: 1, Tiles: make([]GNDTile, 1), TextureNameLen: 4, Textures: []string{"too_long.bmp"}}},
		{"short lightmap", &GND{Width: 1, Height: 1, Tiles: make([]GNDTile, 1), LightmapWidth: 8, LightmapHeight: 8, Lightmaps: []GNDLightmap{{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarshalGND(tt.gnd)
			if !errors.Is(err, ErrInvalidGND) {
				t.Errorf("expected ErrInvalidGND, got %v", err)
			}
		})
	}
}

func TestWriteGNDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gnd")
	gnd, _ := ParseGND(flatRaw(2, 2).bytes())

	if err := WriteGNDFile(path, gnd); err != nil {
		t.Fatalf("WriteGNDFile failed: %v", err)
	}

	again, err := ParseGNDFile(path)
	if err != nil {
		t.Fatalf("ParseGNDFile failed: %v", err)
	}
	if again.Width != 2 || again.Height != 2 {
		t.Errorf("expected 2x2, got %dx%d", again.Width, again.Height)
	}
}
