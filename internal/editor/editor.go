// Package editor runs an interactive sculpting session: it aims the brush
// with an orbit camera, turns input events into painting gestures and
// keeps undo history.
package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-sculpt/internal/config"
	"github.com/Faultbox/midgard-sculpt/internal/engine/camera"
	"github.com/Faultbox/midgard-sculpt/internal/engine/input"
	"github.com/Faultbox/midgard-sculpt/internal/engine/picking"
	"github.com/Faultbox/midgard-sculpt/internal/engine/terrain"
	"github.com/Faultbox/midgard-sculpt/internal/history"
	"github.com/Faultbox/midgard-sculpt/internal/logger"
	"github.com/Faultbox/midgard-sculpt/internal/replay"
	"github.com/Faultbox/midgard-sculpt/internal/scene"
	"github.com/Faultbox/midgard-sculpt/internal/sculpt"
)

// orbitButton drags the camera when it is not bound to painting.
const orbitButton = sdl.BUTTON_MIDDLE

// minBrushSize is the smallest size the bracket keys shrink the brush to.
const minBrushSize = 1

var toolKeys = map[sdl.Scancode]string{
	sdl.SCANCODE_1: "raise_lower",
	sdl.SCANCODE_2: "level",
	sdl.SCANCODE_3: "smooth",
	sdl.SCANCODE_4: "slope",
	sdl.SCANCODE_5: "paint",
}

var panKeys = map[sdl.Scancode][2]float32{
	sdl.SCANCODE_W: {1, 0},
	sdl.SCANCODE_S: {-1, 0},
	sdl.SCANCODE_A: {0, -1},
	sdl.SCANCODE_D: {0, 1},
}

// EventSource yields input events once per frame. *input.Input implements it.
type EventSource interface {
	Update() bool
	Events() []input.Event
}

// Editor owns one editing session. Handle and Update must be called from
// the same goroutine: picking reads the heightmaps that queued painting
// tasks write.
type Editor struct {
	cfg      *config.Config
	bindings input.Bindings

	camera  *camera.OrbitCamera
	picker  *picking.ScreenPicker
	tracker *input.Tracker
	ctrl    *sculpt.ToolController
	hist    *history.Stack
	queue   *scene.Queue

	toolName   string
	brushSize  float32
	brushPower float32
	shape      sculpt.Shape

	orbiting     bool
	lastX, lastY int
	quit         bool

	log *zap.Logger
}

// New creates an editor over tiles for a width x height viewport. Every
// tile's terrain must be a *terrain.Heightmap so it can be picked.
func New(cfg *config.Config, width, height int, tiles ...sculpt.Tile) (*Editor, error) {
	bindings, err := input.NewBindings(cfg.Input)
	if err != nil {
		return nil, err
	}
	tool, err := replay.ToolFromConfig(cfg, "")
	if err != nil {
		return nil, err
	}
	shape, ok := sculpt.ShapeByName(cfg.Brush.Shape)
	if !ok {
		return nil, fmt.Errorf("unknown brush shape %q", cfg.Brush.Shape)
	}

	grounds := make([]*terrain.Heightmap, 0, len(tiles))
	for i, t := range tiles {
		h, ok := t.Terrain.(*terrain.Heightmap)
		if !ok {
			return nil, fmt.Errorf("tile %d: terrain %T cannot be picked", i, t.Terrain)
		}
		grounds = append(grounds, h)
	}

	hist := history.New(cfg.History.MaxDepth)
	ctrl := sculpt.NewToolController(hist)
	ctrl.SetTool(tool)
	ctrl.SetBrush(cfg.Brush.Size, cfg.Brush.Power)
	ctrl.SetShape(shape)
	ctrl.Bind(tiles...)

	cam := camera.NewOrbitCamera()
	if lo, hi, ok := unionBounds(grounds); ok {
		cam.FitToBounds(lo, hi)
	}

	e := &Editor{
		cfg:        cfg,
		bindings:   bindings,
		camera:     cam,
		picker:     &picking.ScreenPicker{Camera: cam, Width: width, Height: height, Tiles: grounds},
		ctrl:       ctrl,
		hist:       hist,
		queue:      scene.NewQueue(),
		toolName:   tool.Name(),
		brushSize:  cfg.Brush.Size,
		brushPower: cfg.Brush.Power,
		shape:      shape,
		log:        logger.Named("editor"),
	}
	e.tracker = input.NewTracker(bindings, e.picker, ctrl, e.queue.Enqueue)
	return e, nil
}

func unionBounds(grounds []*terrain.Heightmap) (lo, hi [3]float32, ok bool) {
	for i, h := range grounds {
		if i == 0 {
			lo, hi = h.Bounds.Min, h.Bounds.Max
			continue
		}
		for a := 0; a < 3; a++ {
			lo[a] = min(lo[a], h.Bounds.Min[a])
			hi[a] = max(hi[a], h.Bounds.Max[a])
		}
	}
	return lo, hi, len(grounds) > 0
}

// Camera returns the session camera.
func (e *Editor) Camera() *camera.OrbitCamera { return e.camera }

// History returns the undo history.
func (e *Editor) History() *history.Stack { return e.hist }

// Controller returns the tool controller. Only touch it between Updates.
func (e *Editor) Controller() *sculpt.ToolController { return e.ctrl }

// Quit reports whether a quit event was handled.
func (e *Editor) Quit() bool { return e.quit }

// Handle processes one input event. Painting work is queued for Update.
func (e *Editor) Handle(ev input.Event) {
	switch ev.Type {
	case input.EventQuit:
		e.quit = true

	case input.EventWindowResize:
		e.picker.Width, e.picker.Height = ev.Width, ev.Height

	case input.EventKeyDown:
		e.handleKey(ev)

	case input.EventMouseWheel:
		e.camera.HandleZoom(float32(ev.Wheel))

	case input.EventMouseDown:
		if _, bound := e.bindings.Classify(ev.Button, ev.Mod); !bound && ev.Button == orbitButton {
			e.orbiting = true
			e.lastX, e.lastY = ev.MouseX, ev.MouseY
			return
		}
		e.tracker.Handle(ev)

	case input.EventMouseMove:
		if e.orbiting {
			e.camera.HandleDrag(float32(ev.MouseX-e.lastX), float32(ev.MouseY-e.lastY))
			e.lastX, e.lastY = ev.MouseX, ev.MouseY
			return
		}
		e.tracker.Handle(ev)

	case input.EventMouseUp:
		if e.orbiting && ev.Button == orbitButton {
			e.orbiting = false
			return
		}
		e.tracker.Handle(ev)
	}
}

func (e *Editor) handleKey(ev input.Event) {
	ctrlHeld := ev.Mod&sdl.Keymod(sdl.KMOD_CTRL) != 0
	switch {
	case ctrlHeld && ev.Key == sdl.SCANCODE_Z && ev.Mod&sdl.Keymod(sdl.KMOD_SHIFT) != 0,
		ctrlHeld && ev.Key == sdl.SCANCODE_Y:
		e.stepHistory("redo", e.hist.Redo)
		return
	case ctrlHeld && ev.Key == sdl.SCANCODE_Z:
		e.stepHistory("undo", e.hist.Undo)
		return
	}

	if name, ok := toolKeys[ev.Key]; ok {
		e.selectTool(name)
		return
	}
	if dir, ok := panKeys[ev.Key]; ok {
		e.camera.HandleMovement(dir[0], dir[1])
		return
	}

	switch ev.Key {
	case sdl.SCANCODE_LEFTBRACKET:
		e.resize(max(e.brushSize-1, minBrushSize))
	case sdl.SCANCODE_RIGHTBRACKET:
		e.resize(e.brushSize + 1)
	case sdl.SCANCODE_B:
		if e.shape.Name() == "disc" {
			e.shape = sculpt.Square{}
		} else {
			e.shape = sculpt.Disc{}
		}
		shape := e.shape
		e.queue.Enqueue(func() { e.ctrl.SetShape(shape) })
	default:
		// Q and E rotate the brush.
		e.tracker.Handle(ev)
	}
}

// stepHistory queues an undo or redo. It is ignored mid-gesture.
func (e *Editor) stepHistory(name string, step func() error) {
	if e.tracker.Active() {
		e.log.Debug("history step ignored while painting", zap.String("step", name))
		return
	}
	e.queue.Enqueue(func() {
		err := step()
		switch {
		case errors.Is(err, history.ErrNothingToUndo), errors.Is(err, history.ErrNothingToRedo):
			e.log.Debug("history empty", zap.String("step", name))
		case err != nil:
			e.log.Error("history step failed", zap.String("step", name), zap.Error(err))
		}
	})
}

func (e *Editor) selectTool(name string) {
	tool, err := replay.ToolFromConfig(e.cfg, name)
	if err != nil {
		e.log.Error("tool selection failed", zap.Error(err))
		return
	}
	e.toolName = name
	e.queue.Enqueue(func() { e.ctrl.SetTool(tool) })
	e.log.Info("tool selected", zap.String("tool", name))
}

func (e *Editor) resize(size float32) {
	e.brushSize = size
	power := e.brushPower
	e.queue.Enqueue(func() { e.ctrl.SetBrush(size, power) })
}

// ToolName returns the name of the last selected tool.
func (e *Editor) ToolName() string { return e.toolName }

// BrushSize returns the brush size the next gesture will use.
func (e *Editor) BrushSize() float32 { return e.brushSize }

// Status summarizes the session for a window title.
func (e *Editor) Status() string {
	state := "idle"
	if e.tracker.Active() {
		state = "painting"
	}
	return fmt.Sprintf("%s | brush %.0f %s | %d undo | %s",
		e.toolName, e.brushSize, e.shape.Name(), e.hist.Depth(), state)
}

// Update runs queued painting and history tasks and returns how many ran.
func (e *Editor) Update() int {
	return e.queue.Drain()
}

// Run polls src once per frame until a quit event arrives or ctx ends.
func (e *Editor) Run(ctx context.Context, src EventSource, frame time.Duration) error {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	e.log.Info("editor started",
		zap.String("tool", e.toolName),
		zap.Float32("brush_size", e.brushSize))
	for {
		quit := src.Update()
		for _, ev := range src.Events() {
			e.Handle(ev)
		}
		e.Update()
		if quit || e.quit {
			e.log.Info("editor stopped", zap.Int("history", e.hist.Depth()))
			return nil
		}

		select {
		case <-ctx.Done():
			e.Update()
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
