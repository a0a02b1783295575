// Package input handles SDL2 input events and turns mouse drags into
// painting gestures.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Mod    sdl.Keymod
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
	Wheel  int
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to editor events.
// Returns true if the editor should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		e, ok := convert(event, sdl.GetModState())
		if !ok {
			continue
		}
		i.events = append(i.events, e)
		if e.Type == EventQuit {
			return true
		}
	}
	return false
}

// convert maps an SDL event onto an Event. mod is the keyboard modifier
// state at the time of the event.
func convert(event sdl.Event, mod sdl.Keymod) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED {
			return Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		ev := Event{Key: e.Keysym.Scancode, Mod: sdl.Keymod(e.Keysym.Mod)}
		switch e.Type {
		case sdl.KEYDOWN:
			ev.Type = EventKeyDown
			return ev, true
		case sdl.KEYUP:
			ev.Type = EventKeyUp
			return ev, true
		}

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			Mod:    mod,
			MouseX: int(e.X),
			MouseY: int(e.Y),
		}, true

	case *sdl.MouseWheelEvent:
		return Event{Type: EventMouseWheel, Mod: mod, Wheel: int(e.Y)}, true

	case *sdl.MouseButtonEvent:
		ev := Event{
			Mod:    mod,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: e.Button,
		}
		switch e.Type {
		case sdl.MOUSEBUTTONDOWN:
			ev.Type = EventMouseDown
			return ev, true
		case sdl.MOUSEBUTTONUP:
			ev.Type = EventMouseUp
			return ev, true
		}
	}
	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
