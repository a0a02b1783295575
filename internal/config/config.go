// Package config handles editor configuration loading and management.
package config

// Config holds all editor settings.
type Config struct {
	Brush   BrushConfig   `yaml:"brush"`
	Sculpt  SculptConfig  `yaml:"sculpt"`
	Paint   PaintConfig   `yaml:"paint"`
	Input   InputConfig   `yaml:"input"`
	History HistoryConfig `yaml:"history"`
	Terrain TerrainConfig `yaml:"terrain"`
	Logging LoggingConfig `yaml:"logging"`
}

// BrushConfig holds the initial brush footprint.
type BrushConfig struct {
	Size  float32 `yaml:"size"`
	Power float32 `yaml:"power"`
	Shape string  `yaml:"shape"` // "disc" or "square"
}

// SculptConfig holds height tool settings.
type SculptConfig struct {
	Tool      string  `yaml:"tool"` // raise_lower, level, smooth, slope, paint
	Level     float32 `yaml:"level"`
	Precision bool    `yaml:"precision"`
	UseMarker bool    `yaml:"use_marker"`
	Lock      bool    `yaml:"lock"`
}

// PaintConfig holds texture painting settings.
type PaintConfig struct {
	Layer int `yaml:"layer"`
}

// InputConfig maps physical buttons onto painting inputs.
// Buttons use SDL numbering (1 = left, 2 = middle, 3 = right).
type InputConfig struct {
	PrimaryButton   uint8  `yaml:"primary_button"`
	SecondaryButton uint8  `yaml:"secondary_button"`
	Modifier        string `yaml:"modifier"` // shift, ctrl, alt
}

// HistoryConfig holds undo/redo settings.
type HistoryConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// TerrainConfig holds how ground files map into world space.
type TerrainConfig struct {
	HeightScale float32 `yaml:"height_scale"`
	Centered    bool    `yaml:"centered"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Brush: BrushConfig{
			Size:  5,
			Power: 1,
			Shape: "disc",
		},
		Sculpt: SculptConfig{
			Tool:      "raise_lower",
			Level:     0,
			Precision: false,
			UseMarker: false,
			Lock:      false,
		},
		Paint: PaintConfig{
			Layer: 0,
		},
		Input: InputConfig{
			PrimaryButton:   1,
			SecondaryButton: 3,
			Modifier:        "ctrl",
		},
		History: HistoryConfig{
			MaxDepth: 50,
		},
		Terrain: TerrainConfig{
			HeightScale: 1,
			Centered:    true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
