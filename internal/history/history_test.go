package history

import (
	"errors"
	"testing"

	"github.com/Faultbox/midgard-sculpt/internal/engine/terrain"
	"github.com/Faultbox/midgard-sculpt/internal/sculpt"
	"github.com/Faultbox/midgard-sculpt/pkg/math"
)

// counterOp adds delta to *value on Redo and subtracts it on Undo.
type counterOp struct {
	value *int
	delta int
	size  int
	err   error
	// redoErr fails Redo.
	redoErr error
}

func (o *counterOp) Name() string { return "counter" }
func (o *counterOp) Len() int     { return o.size }
func (o *counterOp) Undo() error {
	if o.err != nil {
		return o.err
	}
	*o.value -= o.delta
	return nil
}
func (o *counterOp) Redo() error {
	if o.redoErr != nil {
		return o.redoErr
	}
	*o.value += o.delta
	return nil
}

func TestUndoRedo(t *testing.T) {
	s := New(10)
	v := 0
	for _, d := range []int{1, 10, 100} {
		v += d
		s.Push(&counterOp{value: &v, delta: d, size: 1})
	}

	steps := []struct {
		action func() error
		want   int
	}{
		{s.Undo, 11},
		{s.Undo, 1},
		{s.Redo, 11},
		{s.Undo, 1},
		{s.Undo, 0},
		{s.Redo, 1},
	}
	for i, step := range steps {
		if err := step.action(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if v != step.want {
			t.Fatalf("step %d: value = %d, want %d", i, v, step.want)
		}
	}
}

func TestEmptyStackErrors(t *testing.T) {
	s := New(5)
	if err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() = %v, want ErrNothingToUndo", err)
	}
	if err := s.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() = %v, want ErrNothingToRedo", err)
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("empty stack reports undo/redo available")
	}
}

func TestPushDiscardsEmptyOperations(t *testing.T) {
	s := New(5)
	v := 0
	s.Push(nil)
	s.Push(&counterOp{value: &v, delta: 1, size: 0})
	if s.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", s.Depth())
	}
}

func TestPushClearsRedo(t *testing.T) {
	s := New(5)
	v := 0
	s.Push(&counterOp{value: &v, delta: 1, size: 1})
	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if !s.CanRedo() {
		t.Fatal("redo should be available")
	}
	s.Push(&counterOp{value: &v, delta: 2, size: 1})
	if s.CanRedo() {
		t.Error("push should clear redo")
	}
}

func TestMaxDepth(t *testing.T) {
	s := New(3)
	v := 0
	for i := 1; i <= 5; i++ {
		v += i
		s.Push(&counterOp{value: &v, delta: i, size: 1})
	}
	if s.Depth() != 3 {
		t.Fatalf("Depth() = %d, want 3", s.Depth())
	}
	for s.CanUndo() {
		if err := s.Undo(); err != nil {
			t.Fatal(err)
		}
	}
	// The two oldest operations fell off the stack.
	if v != 3 {
		t.Errorf("value = %d, want 3", v)
	}
	if New(0).maxDepth != DefaultMaxDepth {
		t.Error("non-positive depth should fall back to the default")
	}
}

func TestUndoErrorIsWrapped(t *testing.T) {
	s := New(3)
	v := 0
	boom := errors.New("boom")
	s.Push(&counterOp{value: &v, delta: 1, size: 1, err: boom})
	if err := s.Undo(); !errors.Is(err, boom) {
		t.Errorf("Undo() = %v, want wrapped boom", err)
	}
	if s.CanRedo() {
		t.Error("failed undo should not be redoable")
	}
	if s.Depth() != 1 {
		t.Errorf("depth after failed undo = %d, want 1", s.Depth())
	}

	op := s.undo[0].(*counterOp)
	op.err = nil
	if err := s.Undo(); err != nil {
		t.Fatalf("retry Undo() = %v", err)
	}
	if v != -1 {
		t.Errorf("value = %d, want -1", v)
	}
}

func TestRedoErrorKeepsOperation(t *testing.T) {
	s := New(3)
	v := 0
	boom := errors.New("boom")
	op := &counterOp{value: &v, delta: 1, size: 1, redoErr: boom}
	s.Push(op)
	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := s.Redo(); !errors.Is(err, boom) {
		t.Errorf("Redo() = %v, want wrapped boom", err)
	}
	if !s.CanRedo() || s.CanUndo() {
		t.Errorf("after failed redo: CanRedo=%v CanUndo=%v, want true false", s.CanRedo(), s.CanUndo())
	}

	op.redoErr = nil
	if err := s.Redo(); err != nil {
		t.Fatalf("retry Redo() = %v", err)
	}
	if v != 0 || s.Depth() != 1 {
		t.Errorf("value = %d depth = %d, want 0 1", v, s.Depth())
	}
}

func TestHistoryWithController(t *testing.T) {
	h := terrain.NewHeightmap(11, 11, true)
	s := New(10)
	c := sculpt.NewToolController(s)
	c.SetTool(&sculpt.RaiseLower{})
	c.SetBrush(3, 1)
	c.Bind(sculpt.Tile{Terrain: h})

	rot := math.QuatIdentity()
	center := sculpt.CellKey{}
	for i := 0; i < 2; i++ {
		_ = c.StartPainting(sculpt.InputPrimary, rot, math.Vec3{})
		_ = c.FinishPainting(rot, math.Vec3{})
	}
	if got := h.HeightAt(center); got != 4 {
		t.Fatalf("height = %v, want 4", got)
	}

	// A gesture outside the terrain commits nothing worth keeping.
	_ = c.StartPainting(sculpt.InputPrimary, rot, math.Vec3{X: 100})
	_ = c.FinishPainting(rot, math.Vec3{X: 100})
	if s.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", s.Depth())
	}

	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := h.HeightAt(center); got != 2 {
		t.Errorf("after undo = %v, want 2", got)
	}
	if err := s.Redo(); err != nil {
		t.Fatal(err)
	}
	if got := h.HeightAt(center); got != 4 {
		t.Errorf("after redo = %v, want 4", got)
	}
}
