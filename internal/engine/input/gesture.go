package input

import (
	gomath "math"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-sculpt/internal/logger"
	"github.com/Faultbox/midgard-sculpt/internal/sculpt"
	"github.com/Faultbox/midgard-sculpt/pkg/math"
)

// rotateStep is the brush yaw change per rotate key press, in radians.
const rotateStep = gomath.Pi / 12

// Picker resolves a screen position to a world contact point.
type Picker interface {
	Pick(x, y int) (math.Vec3, bool)
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(x, y int) (math.Vec3, bool)

// Pick implements Picker.
func (f PickerFunc) Pick(x, y int) (math.Vec3, bool) { return f(x, y) }

// Painter receives gesture calls on the scene goroutine.
type Painter interface {
	StartPainting(in sculpt.Input, rot math.Quat, contact math.Vec3) error
	UpdatePainting(rot math.Quat, contact math.Vec3, deltaTime float32) error
	FinishPainting(rot math.Quat, contact math.Vec3) error
}

// Tracker turns mouse events from the UI goroutine into painting calls that
// are handed to the scene goroutine through submit.
type Tracker struct {
	bindings Bindings
	picker   Picker
	painter  Painter
	submit   func(task func())
	now      func() time.Time

	yaw      float32
	button   uint8 // pressed gesture button, 0 when idle
	contact  math.Vec3
	lastMove time.Time

	log *zap.Logger
}

// NewTracker creates a tracker. submit must run tasks in order on the
// goroutine that owns painter.
func NewTracker(b Bindings, picker Picker, painter Painter, submit func(task func())) *Tracker {
	return &Tracker{
		bindings: b,
		picker:   picker,
		painter:  painter,
		submit:   submit,
		now:      time.Now,
		log:      logger.Named("input"),
	}
}

// Rotation returns the current brush rotation.
func (t *Tracker) Rotation() math.Quat {
	return math.QuatFromAxisAngle(math.Vec3{Y: 1}, t.yaw)
}

// Active reports whether a button is held.
func (t *Tracker) Active() bool {
	return t.button != 0
}

// Handle processes one event.
func (t *Tracker) Handle(e Event) {
	switch e.Type {
	case EventKeyDown:
		switch e.Key {
		case sdl.SCANCODE_Q:
			t.yaw -= rotateStep
		case sdl.SCANCODE_E:
			t.yaw += rotateStep
		}

	case EventMouseDown:
		if t.button != 0 {
			return
		}
		in, ok := t.bindings.Classify(e.Button, e.Mod)
		if !ok {
			return
		}
		contact, ok := t.picker.Pick(e.MouseX, e.MouseY)
		if !ok {
			return
		}
		t.button = e.Button
		t.contact = contact
		t.lastMove = t.now()
		rot := t.Rotation()
		t.submit(func() {
			t.report("start", t.painter.StartPainting(in, rot, contact))
		})

	case EventMouseMove:
		if t.button == 0 {
			return
		}
		contact, ok := t.picker.Pick(e.MouseX, e.MouseY)
		if !ok {
			return
		}
		now := t.now()
		dt := float32(now.Sub(t.lastMove).Seconds())
		t.lastMove = now
		t.contact = contact
		rot := t.Rotation()
		t.submit(func() {
			t.report("update", t.painter.UpdatePainting(rot, contact, dt))
		})

	case EventMouseUp:
		if e.Button != t.button {
			return
		}
		t.button = 0
		contact := t.contact
		if p, ok := t.picker.Pick(e.MouseX, e.MouseY); ok {
			contact = p
		}
		rot := t.Rotation()
		t.submit(func() {
			t.report("finish", t.painter.FinishPainting(rot, contact))
		})
	}
}

func (t *Tracker) report(stage string, err error) {
	if err != nil {
		t.log.Error("painting failed", zap.String("stage", stage), zap.Error(err))
	}
}
