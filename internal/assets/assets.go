// Package assets resolves map files across layered GRF archives.
package assets

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-sculpt/internal/logger"
	"github.com/Faultbox/midgard-sculpt/pkg/encoding"
	"github.com/Faultbox/midgard-sculpt/pkg/formats"
	"github.com/Faultbox/midgard-sculpt/pkg/grf"
)

// Manager loads files from a stack of archives. Archives added later take
// priority, the way patch archives override the base data.
type Manager struct {
	mu       sync.RWMutex
	archives []*grf.Archive
	cache    map[string][]byte
	hits     int
	misses   int
	log      *zap.Logger
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		cache: make(map[string][]byte),
		log:   logger.Named("assets"),
	}
}

// AddArchive opens the archive at path and puts it on top of the stack.
func (m *Manager) AddArchive(path string) error {
	a, err := grf.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", path, err)
	}
	m.Add(a)
	m.log.Info("archive added", zap.String("path", path), zap.Int("files", a.Len()))
	return nil
}

// Add puts an opened archive on top of the stack.
func (m *Manager) Add(a *grf.Archive) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.archives = append(m.archives, a)
	clear(m.cache)
}

// Len returns the number of archives.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.archives)
}

// Load returns the file at p from the highest-priority archive holding it.
func (m *Manager) Load(p string) ([]byte, error) {
	key := encoding.NormalizeGRFPath(p)

	m.mu.Lock()
	defer m.mu.Unlock()
	if data, ok := m.cache[key]; ok {
		m.hits++
		return data, nil
	}
	m.misses++

	for i := len(m.archives) - 1; i >= 0; i-- {
		data, err := m.archives[i].Read(key)
		if errors.Is(err, grf.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		m.cache[key] = data
		return data, nil
	}
	return nil, fmt.Errorf("%w: %s", grf.ErrNotFound, p)
}

// Stats returns cache hits and misses.
func (m *Manager) Stats() (hits, misses int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hits, m.misses
}

// MapPath maps a map name such as "prontera" to its archive path
// "data/prontera.gnd". Names containing a separator pass through.
func MapPath(name, ext string) string {
	if strings.ContainsAny(name, "/\\") {
		return name
	}
	return "data/" + strings.TrimSuffix(name, ext) + ext
}

// Ground loads and parses a map's ground mesh.
func (m *Manager) Ground(name string) (*formats.GND, error) {
	data, err := m.Load(MapPath(name, ".gnd"))
	if err != nil {
		return nil, err
	}
	return formats.ParseGND(data)
}

// Altitude loads and parses a map's altitude table.
func (m *Manager) Altitude(name string) (*formats.GAT, error) {
	p := MapPath(name, ".gnd")
	data, err := m.Load(strings.TrimSuffix(p, path.Ext(p)) + ".gat")
	if err != nil {
		return nil, err
	}
	return formats.ParseGAT(data)
}

// Maps returns the sorted names of every ground file across all archives.
func (m *Manager) Maps() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, a := range m.archives {
		for _, p := range a.List(".gnd") {
			seen[strings.TrimSuffix(path.Base(p), ".gnd")] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every archive and empties the cache.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, a := range m.archives {
		errs = append(errs, a.Close())
	}
	m.archives = nil
	clear(m.cache)
	return errors.Join(errs...)
}
