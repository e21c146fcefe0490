package field

import "github.com/san-kum/accelsim/internal/geom"

// Manager superposes an unordered collection of field sources. It is
// the single point every integrator queries: components register
// their sources here once, and the accelerator's step loop only ever
// talks to a Manager, never to individual sources.
type Manager struct {
	sources []Source
}

// NewManager returns an empty field manager.
func NewManager() *Manager {
	return &Manager{}
}

// AddSource registers src. A nil src is silently ignored so callers
// composing an optional field don't need to guard every call site.
func (m *Manager) AddSource(src Source) {
	if src == nil {
		return
	}
	m.sources = append(m.sources, src)
}

// RemoveSource removes the first occurrence of src, if present.
func (m *Manager) RemoveSource(src Source) {
	for i, s := range m.sources {
		if s == src {
			m.sources = append(m.sources[:i], m.sources[i+1:]...)
			return
		}
	}
}

// Clear removes every registered source.
func (m *Manager) Clear() {
	m.sources = nil
}

// Sources returns the registered sources. Callers must not retain the
// slice past the next AddSource/RemoveSource/Clear call.
func (m *Manager) Sources() []Source {
	return m.sources
}

// SourceCount returns the number of registered sources, regardless of
// enabled state.
func (m *Manager) SourceCount() int {
	return len(m.sources)
}

// Evaluate returns the superposed field value at position and time,
// summing every enabled source whose Inside check passes.
func (m *Manager) Evaluate(position geom.Vec3, t float64) Value {
	var total Value
	for _, s := range m.sources {
		if !s.Enabled() || !s.Inside(position) {
			continue
		}
		total = total.Add(s.Evaluate(position, t))
	}
	return total
}
