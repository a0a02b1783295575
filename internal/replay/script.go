// Package replay plays scripted painting gestures through the sculpt
// controller, for headless editing and tests.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-sculpt/internal/sculpt"
	"github.com/Faultbox/midgard-sculpt/pkg/math"
)

// ErrInvalidScript is returned for scripts that cannot be played.
var ErrInvalidScript = errors.New("invalid stroke script")

// Point is a world position written as [x, y, z].
type Point [3]float32

// Vec3 converts p to a vector.
func (p Point) Vec3() math.Vec3 {
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// Stroke is one gesture. Unset fields fall back to the configuration.
type Stroke struct {
	Tool  string `yaml:"tool"`
	Input string `yaml:"input"`

	Size  *float32 `yaml:"size"`
	Power *float32 `yaml:"power"`
	Shape string   `yaml:"shape"`
	// Yaw rotates the brush, in degrees.
	Yaw float32 `yaml:"yaw"`

	Level     *float32 `yaml:"level"`
	Precision *bool    `yaml:"precision"`
	UseMarker *bool    `yaml:"use_marker"`
	Marker    *Point   `yaml:"marker"`

	Lock *bool  `yaml:"lock"`
	Base *Point `yaml:"base"`
	Peak *Point `yaml:"peak"`

	Layer *int `yaml:"layer"`

	// Points are the contact points of the gesture: the first starts it,
	// the last finishes it and any others update it.
	Points []Point `yaml:"points"`
}

// Script is a sequence of strokes followed by history steps.
type Script struct {
	Strokes []Stroke `yaml:"strokes"`
	Undo    int      `yaml:"undo"`
	Redo    int      `yaml:"redo"`
}

// Parse decodes a YAML script. Unknown fields are rejected.
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScript reads and parses a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stroke script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Script) validate() error {
	if s.Undo < 0 || s.Redo < 0 {
		return fmt.Errorf("%w: negative undo/redo count", ErrInvalidScript)
	}
	for i, st := range s.Strokes {
		if len(st.Points) == 0 {
			return fmt.Errorf("%w: stroke %d has no points", ErrInvalidScript, i)
		}
		if st.Tool != "" {
			if _, ok := toolNames[st.Tool]; !ok {
				return fmt.Errorf("%w: stroke %d: unknown tool %q", ErrInvalidScript, i, st.Tool)
			}
		}
		if st.Input != "" {
			if _, err := sculpt.ParseInput(st.Input); err != nil {
				return fmt.Errorf("%w: stroke %d: %v", ErrInvalidScript, i, err)
			}
		}
		if st.Shape != "" {
			if _, ok := sculpt.ShapeByName(st.Shape); !ok {
				return fmt.Errorf("%w: stroke %d: unknown shape %q", ErrInvalidScript, i, st.Shape)
			}
		}
		if st.Size != nil && *st.Size <= 0 {
			return fmt.Errorf("%w: stroke %d: size must be positive", ErrInvalidScript, i)
		}
		if st.Layer != nil && *st.Layer < 0 {
			return fmt.Errorf("%w: stroke %d: negative layer", ErrInvalidScript, i)
		}
	}
	return nil
}
