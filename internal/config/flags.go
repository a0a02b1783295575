package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagTool      = flag.String("tool", "", "Active tool (raise_lower, level, smooth, slope, paint)")
	flagSize      = flag.Float64("brush-size", 0, "Brush size in world units")
	flagPower     = flag.Float64("brush-power", 0, "Brush power")
	flagPrecision = flag.Bool("precision", false, "Use precision mode for level/slope")
	flagLayer     = flag.Int("layer", -1, "Texture layer for painting")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagTool != "" {
		cfg.Sculpt.Tool = *flagTool
	}
	if *flagSize > 0 {
		cfg.Brush.Size = float32(*flagSize)
	}
	if *flagPower > 0 {
		cfg.Brush.Power = float32(*flagPower)
	}
	if *flagPrecision {
		cfg.Sculpt.Precision = true
	}
	if *flagLayer >= 0 {
		cfg.Paint.Layer = *flagLayer
	}
}
