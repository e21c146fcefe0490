package lattice

import (
	"fmt"
	"math"

	"github.com/san-kum/accelsim/internal/field"
)

// Kind names the topology of a lattice.
type Kind string

const (
	// KindLinear is a single-pass beamline (a linac).
	KindLinear Kind = "Linear"
	// KindCircular is a periodic ring (a synchrotron or storage ring).
	KindCircular Kind = "Circular"
)

// Lattice is an ordered sequence of Components with prefix-summed
// s-positions. It is the single point of truth for "where is this
// component" and "what fields are live at this s"; a Manager built
// from it is what integrators actually query.
type Lattice struct {
	kind        Kind
	components  []Component
	totalLength float64
	driftCount  int
}

// New returns an empty linear lattice.
func New() *Lattice {
	return &Lattice{kind: KindLinear}
}

// Kind returns the lattice topology.
func (l *Lattice) Kind() Kind { return l.kind }

// SetKind sets the lattice topology directly, without recomputing
// s-positions. Prefer CloseRing to switch to Circular.
func (l *Lattice) SetKind(k Kind) { l.kind = k }

// AddComponent appends c to the end of the beamline. A nil component
// is silently ignored.
func (l *Lattice) AddComponent(c Component) {
	if c == nil {
		return
	}
	l.components = append(l.components, c)
}

// InsertComponent inserts c at index, which must be in [0, len]. Out
// of range indices and a nil component are silently ignored.
func (l *Lattice) InsertComponent(index int, c Component) {
	if c == nil || index < 0 || index > len(l.components) {
		return
	}
	l.components = append(l.components, nil)
	copy(l.components[index+1:], l.components[index:])
	l.components[index] = c
}

// RemoveComponentAt removes the component at index, if in range.
func (l *Lattice) RemoveComponentAt(index int) {
	if index < 0 || index >= len(l.components) {
		return
	}
	l.components = append(l.components[:index], l.components[index+1:]...)
}

// RemoveComponentNamed removes every component whose Name matches
// name.
func (l *Lattice) RemoveComponentNamed(name string) {
	kept := l.components[:0]
	for _, c := range l.components {
		if c.Name() != name {
			kept = append(kept, c)
		}
	}
	l.components = kept
}

// Clear removes every component and resets bookkeeping.
func (l *Lattice) Clear() {
	l.components = nil
	l.totalLength = 0
	l.driftCount = 0
}

// ComponentCount returns the number of components.
func (l *Lattice) ComponentCount() int { return len(l.components) }

// ComponentAt returns the component at index, or nil if out of range.
func (l *Lattice) ComponentAt(index int) Component {
	if index < 0 || index >= len(l.components) {
		return nil
	}
	return l.components[index]
}

// ComponentNamed returns the first component with the given name, or
// nil if none match.
func (l *Lattice) ComponentNamed(name string) Component {
	for _, c := range l.components {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// Components returns the full ordered component slice. Callers must
// not retain it past the next mutating call.
func (l *Lattice) Components() []Component { return l.components }

// ComponentAtS returns the component containing s-position s, mapping
// s into [0, TotalLength) first if the lattice is circular.
func (l *Lattice) ComponentAtS(s float64) Component {
	if l.kind == KindCircular && l.totalLength > 0 {
		s = math.Mod(s, l.totalLength)
		if s < 0 {
			s += l.totalLength
		}
	}
	for _, c := range l.components {
		if c.ContainsS(s) {
			return c
		}
	}
	return nil
}

// AddDrift appends a field-free BeamPipe of the given length. If name
// is empty, a sequential "Drift_N" name is generated.
func (l *Lattice) AddDrift(length float64, name string) {
	if name == "" {
		l.driftCount++
		name = fmt.Sprintf("Drift_%d", l.driftCount)
	}
	l.AddComponent(NewBeamPipe(name, length, DefaultAperture()))
}

// FODOCellParams configures a standard QF-drift-QD-drift focusing cell.
type FODOCellParams struct {
	CellLength   float64 // total cell length, m
	QuadLength   float64 // m
	QuadGradient float64 // T/m, magnitude
	DriftLength  float64 // m; computed from CellLength/QuadLength if <= 0
	Aperture     float64 // aperture radius, m
}

// DefaultFODOCellParams matches the reference implementation's
// defaults.
func DefaultFODOCellParams() FODOCellParams {
	return FODOCellParams{CellLength: 10.0, QuadLength: 0.5, QuadGradient: 50.0, Aperture: 0.05}
}

// BuildFODOCell appends one QF-drift-QD-drift cell. When DriftLength
// is unset, the two flanking drifts are sized so the full cell
// (QF + drift + QD + drift) sums to CellLength — the full-quad
// convention, matching the reference engine's actual arithmetic.
func (l *Lattice) BuildFODOCell(params FODOCellParams, cellName string) {
	if cellName == "" {
		cellName = "FODO"
	}
	driftLength := params.DriftLength
	if driftLength <= 0 {
		driftLength = (params.CellLength - 2*params.QuadLength) / 2
	}

	aperture := Aperture{Shape: ApertureCircular, RadiusX: params.Aperture, RadiusY: params.Aperture}

	qf := NewQuadrupole(cellName+"_QF", params.QuadLength, params.QuadGradient, aperture)
	l.AddComponent(qf)

	l.AddDrift(driftLength, cellName+"_D1")

	qd := NewQuadrupole(cellName+"_QD", params.QuadLength, -params.QuadGradient, aperture)
	l.AddComponent(qd)

	l.AddDrift(driftLength, cellName+"_D2")
}

// BuildFODOLattice appends numCells FODO cells named FODO_1, FODO_2, ....
func (l *Lattice) BuildFODOLattice(params FODOCellParams, numCells int) {
	for i := 0; i < numCells; i++ {
		l.BuildFODOCell(params, fmt.Sprintf("FODO_%d", i+1))
	}
}

// ComputeLattice recomputes every component's s-position from a
// running prefix sum. Call it after mutating the component list and
// before simulating.
func (l *Lattice) ComputeLattice() {
	l.updateSPositions()
}

// CloseRing switches the lattice to Circular topology and recomputes
// s-positions.
func (l *Lattice) CloseRing() {
	l.kind = KindCircular
	l.updateSPositions()
}

func (l *Lattice) updateSPositions() {
	s := 0.0
	for _, c := range l.components {
		c.setSPosition(s)
		s += c.Length()
	}
	l.totalLength = s
}

// TotalLength returns the summed length of every component.
func (l *Lattice) TotalLength() float64 { return l.totalLength }

// Circumference is an alias for TotalLength, meaningful for circular
// lattices.
func (l *Lattice) Circumference() float64 { return l.totalLength }

// IsClosed reports whether the lattice is Circular.
func (l *Lattice) IsClosed() bool { return l.kind == KindCircular }

// PopulateFieldManager registers every component's non-nil field
// source with mgr.
func (l *Lattice) PopulateFieldManager(mgr *field.Manager) {
	for _, c := range l.components {
		mgr.AddSource(c.FieldSource())
	}
}

// Dipoles returns every Dipole in the lattice, in beamline order.
func (l *Lattice) Dipoles() []*Dipole {
	var out []*Dipole
	for _, c := range l.components {
		if d, ok := c.(*Dipole); ok {
			out = append(out, d)
		}
	}
	return out
}

// Quadrupoles returns every Quadrupole in the lattice, in beamline order.
func (l *Lattice) Quadrupoles() []*Quadrupole {
	var out []*Quadrupole
	for _, c := range l.components {
		if q, ok := c.(*Quadrupole); ok {
			out = append(out, q)
		}
	}
	return out
}

// RFCavities returns every RFCavity in the lattice, in beamline order.
func (l *Lattice) RFCavities() []*RFCavity {
	var out []*RFCavity
	for _, c := range l.components {
		if r, ok := c.(*RFCavity); ok {
			out = append(out, r)
		}
	}
	return out
}

// Detectors returns every Detector in the lattice, in beamline order.
func (l *Lattice) Detectors() []*Detector {
	var out []*Detector
	for _, c := range l.components {
		if d, ok := c.(*Detector); ok {
			out = append(out, d)
		}
	}
	return out
}

// DipoleCount returns the number of dipoles in the lattice.
func (l *Lattice) DipoleCount() int { return len(l.Dipoles()) }

// QuadrupoleCount returns the number of quadrupoles in the lattice.
func (l *Lattice) QuadrupoleCount() int { return len(l.Quadrupoles()) }

// TotalBendingAngle sums BendingAngle(momentum) over every dipole.
func (l *Lattice) TotalBendingAngle(momentum float64) float64 {
	total := 0.0
	for _, d := range l.Dipoles() {
		total += d.BendingAngle(momentum)
	}
	return total
}
