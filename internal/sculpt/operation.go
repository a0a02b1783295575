package sculpt

import (
	"errors"
	"sort"
)

// Operation is a committed gesture. It is handed to a Consumer at the end of
// the gesture and owned by it afterwards. The edit is already applied when
// the operation is created; Undo restores the old values and Redo the new.
type Operation interface {
	// Name is the edited property, e.g. "heights" or "alpha".
	Name() string
	// Len is the number of distinct cells or pixels touched.
	Len() int
	Undo() error
	Redo() error
}

// Consumer receives committed operations. It must not call back into the
// controller that produced them.
type Consumer interface {
	Push(op Operation)
}

// ConsumerFunc adapts a function to Consumer.
type ConsumerFunc func(op Operation)

// Push implements Consumer.
func (f ConsumerFunc) Push(op Operation) { f(op) }

// HeightChange holds the old and new heights of one terrain. Old and New
// always have the same keys.
type HeightChange struct {
	Terrain Terrain
	Old     map[CellKey]float32
	New     map[CellKey]float32
}

// apply writes values into the terrain and refreshes its bounds.
func (c HeightChange) apply(values map[CellKey]float32) {
	if len(values) == 0 {
		return
	}
	cells := sortedCells(values)
	heights := make([]float32, len(cells))
	for i, cell := range cells {
		heights[i] = values[cell]
	}
	c.Terrain.SetHeights(cells, heights)
	c.Terrain.UpdateModelBound()
}

// HeightOperation is the undo record of a sculpt gesture across all tiles.
type HeightOperation struct {
	Changes []HeightChange
}

// Name implements Operation.
func (op *HeightOperation) Name() string { return "heights" }

// Len implements Operation.
func (op *HeightOperation) Len() int {
	n := 0
	for _, c := range op.Changes {
		n += len(c.Old)
	}
	return n
}

// Undo implements Operation.
func (op *HeightOperation) Undo() error {
	for _, c := range op.Changes {
		c.apply(c.Old)
	}
	return nil
}

// Redo implements Operation.
func (op *HeightOperation) Redo() error {
	for _, c := range op.Changes {
		c.apply(c.New)
	}
	return nil
}

// AlphaChange holds the old and new pixels of one alpha buffer, keyed by
// byte offset. Old and New always have the same keys.
type AlphaChange struct {
	Buffer AlphaBuffer
	Old    map[int]Color
	New    map[int]Color
}

func (c AlphaChange) apply(values map[int]Color) error {
	data := c.Buffer.Data()
	format := c.Buffer.Format()
	for idx, col := range values {
		if err := writePixel(data, format, idx, col); err != nil {
			return err
		}
	}
	c.Buffer.SetUpdateNeeded()
	return nil
}

// AlphaOperation is the undo record of a paint gesture.
type AlphaOperation struct {
	Changes []AlphaChange
}

// Name implements Operation.
func (op *AlphaOperation) Name() string { return "alpha" }

// Len implements Operation.
func (op *AlphaOperation) Len() int {
	n := 0
	for _, c := range op.Changes {
		n += len(c.Old)
	}
	return n
}

// Undo implements Operation. Each buffer's change generation is decremented.
func (op *AlphaOperation) Undo() error {
	var errs []error
	for _, c := range op.Changes {
		if err := c.apply(c.Old); err != nil {
			errs = append(errs, err)
			continue
		}
		c.Buffer.DecrementChanges()
	}
	return errors.Join(errs...)
}

// Redo implements Operation. Each buffer's change generation is incremented.
func (op *AlphaOperation) Redo() error {
	var errs []error
	for _, c := range op.Changes {
		if err := c.apply(c.New); err != nil {
			errs = append(errs, err)
			continue
		}
		c.Buffer.IncrementChange()
	}
	return errors.Join(errs...)
}

// sortedCells returns the keys of values in row order.
func sortedCells(values map[CellKey]float32) []CellKey {
	cells := make([]CellKey, 0, len(values))
	for cell := range values {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Z != cells[j].Z {
			return cells[i].Z < cells[j].Z
		}
		return cells[i].X < cells[j].X
	})
	return cells
}
