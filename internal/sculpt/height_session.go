package sculpt

import gomath "math"

// HeightEditSession records the first observed height of every cell touched
// during one gesture, per terrain.
type HeightEditSession struct {
	order    []Terrain
	original map[Terrain]map[CellKey]float32
}

// NewHeightEditSession returns an empty session.
func NewHeightEditSession() *HeightEditSession {
	return &HeightEditSession{original: make(map[Terrain]map[CellKey]float32)}
}

// Begin clears all tracked cells and registers terrains in commit order.
func (s *HeightEditSession) Begin(terrains ...Terrain) {
	s.order = s.order[:0]
	s.original = make(map[Terrain]map[CellKey]float32, len(terrains))
	for _, t := range terrains {
		s.register(t)
	}
}

func (s *HeightEditSession) register(t Terrain) map[CellKey]float32 {
	if m, ok := s.original[t]; ok {
		return m
	}
	m := make(map[CellKey]float32)
	s.original[t] = m
	s.order = append(s.order, t)
	return m
}

// Track records the current height of cell as its original value unless the
// cell was already tracked. It reports false for cells outside the terrain,
// which are never tracked.
func (s *HeightEditSession) Track(t Terrain, cell CellKey) bool {
	m := s.register(t)
	if _, seen := m[cell]; seen {
		return true
	}
	h := t.HeightAt(cell)
	if isNaN(h) {
		return false
	}
	m[cell] = h
	return true
}

// Baseline returns the height cell had when it was first tracked.
func (s *HeightEditSession) Baseline(t Terrain, cell CellKey) (float32, bool) {
	h, ok := s.original[t][cell]
	return h, ok
}

// Len returns the number of tracked cells across all terrains.
func (s *HeightEditSession) Len() int {
	n := 0
	for _, m := range s.original {
		n += len(m)
	}
	return n
}

// Commit reads the current height of every tracked cell, clears the session
// and returns the resulting operation. Terrains with no tracked cells are
// omitted; the operation may be empty.
func (s *HeightEditSession) Commit() *HeightOperation {
	op := &HeightOperation{}
	for _, t := range s.order {
		old := s.original[t]
		if len(old) == 0 {
			continue
		}
		next := make(map[CellKey]float32, len(old))
		for cell := range old {
			next[cell] = t.HeightAt(cell)
		}
		op.Changes = append(op.Changes, HeightChange{Terrain: t, Old: old, New: next})
	}
	s.Begin()
	return op
}

func isNaN(f float32) bool {
	return gomath.IsNaN(float64(f))
}
