package input

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/midgard-sculpt/internal/config"
	"github.com/Faultbox/midgard-sculpt/internal/sculpt"
)

// Bindings maps mouse buttons and a keyboard modifier onto painting inputs.
// It is built once from configuration and never mutated.
type Bindings struct {
	primary   uint8
	secondary uint8
	modifier  sdl.Keymod
}

var modifiers = map[string]sdl.Keymod{
	"":      0,
	"shift": sdl.KMOD_SHIFT,
	"ctrl":  sdl.KMOD_CTRL,
	"alt":   sdl.KMOD_ALT,
}

// NewBindings builds bindings from the input section of the configuration.
func NewBindings(cfg config.InputConfig) (Bindings, error) {
	mod, ok := modifiers[cfg.Modifier]
	if !ok {
		return Bindings{}, fmt.Errorf("unknown modifier %q", cfg.Modifier)
	}
	if cfg.PrimaryButton == cfg.SecondaryButton {
		return Bindings{}, fmt.Errorf("primary and secondary buttons must differ, both are %d", cfg.PrimaryButton)
	}
	return Bindings{
		primary:   cfg.PrimaryButton,
		secondary: cfg.SecondaryButton,
		modifier:  mod,
	}, nil
}

// Classify returns the painting input for a button press with the given
// modifier state. ok is false for unbound buttons.
func (b Bindings) Classify(button uint8, mod sdl.Keymod) (sculpt.Input, bool) {
	switch button {
	case b.primary:
		return sculpt.InputPrimary, true
	case b.secondary:
		if b.modifier != 0 && mod&b.modifier != 0 {
			return sculpt.InputSecondaryWithModifier, true
		}
		return sculpt.InputSecondary, true
	}
	return sculpt.InputNone, false
}
