// Package lattice models the beamline as an ordered sequence of
// Components (drifts, magnets, RF cavities, detectors), tracks their
// s-positions, and builds the composite field manager an integrator
// steps particles against.
package lattice

import (
	"github.com/san-kum/accelsim/internal/field"
	"github.com/san-kum/accelsim/internal/geom"
)

// Type names a component's physical role.
type Type string

const (
	TypeBeamPipe   Type = "BeamPipe"
	TypeDipole     Type = "Dipole"
	TypeQuadrupole Type = "Quadrupole"
	TypeRFCavity   Type = "RFCavity"
	TypeDetector   Type = "Detector"
)

// Component is a single beamline element: a name, a length, an
// aperture, a placement in global coordinates, and (for the magnetic
// and RF elements) a field source that a Lattice registers with an
// field.Manager.
type Component interface {
	Name() string
	Type() Type
	Length() float64
	Aperture() Aperture

	SPosition() float64
	setSPosition(s float64)
	EntranceS() float64
	ExitS() float64
	ContainsS(s float64) bool

	Position() geom.Vec3
	SetPosition(p geom.Vec3)
	Rotation() geom.Quat
	SetRotation(q geom.Quat)

	ToLocal(global geom.Vec3) geom.Vec3
	ToGlobal(local geom.Vec3) geom.Vec3
	InsideAperture(global geom.Vec3) bool

	// FieldSource returns this component's field contribution, or nil
	// for passive elements (BeamPipe, Detector).
	FieldSource() field.Source
}

// base implements the geometry and bookkeeping shared by every
// component; concrete types embed it and supply FieldSource.
type base struct {
	name     string
	length   float64
	aperture Aperture

	sPosition float64
	position  geom.Vec3
	rotation  geom.Quat
}

func newBase(name string, length float64, aperture Aperture) base {
	return base{name: name, length: length, aperture: aperture, rotation: geom.Identity}
}

func (b *base) Name() string        { return b.name }
func (b *base) Length() float64     { return b.length }
func (b *base) Aperture() Aperture  { return b.aperture }
func (b *base) SPosition() float64  { return b.sPosition }
func (b *base) setSPosition(s float64) { b.sPosition = s }
func (b *base) EntranceS() float64  { return b.sPosition }
func (b *base) ExitS() float64      { return b.sPosition + b.length }

func (b *base) ContainsS(s float64) bool {
	return s >= b.sPosition && s < b.sPosition+b.length
}

func (b *base) Position() geom.Vec3      { return b.position }
func (b *base) SetPosition(p geom.Vec3)  { b.position = p }
func (b *base) Rotation() geom.Quat      { return b.rotation }
func (b *base) SetRotation(q geom.Quat)  { b.rotation = q }

func (b *base) ToLocal(global geom.Vec3) geom.Vec3 {
	translated := global.Sub(b.position)
	return b.rotation.InverseRotateVec3(translated)
}

func (b *base) ToGlobal(local geom.Vec3) geom.Vec3 {
	return b.rotation.RotateVec3(local).Add(b.position)
}

func (b *base) InsideAperture(global geom.Vec3) bool {
	local := b.ToLocal(global)
	if local.Z < 0 || local.Z > b.length {
		return false
	}
	return b.aperture.Inside(local.X, local.Y)
}

// BeamPipe is a field-free drift space; it defines only the vacuum
// chamber aperture a particle must stay inside.
type BeamPipe struct {
	base
}

// NewBeamPipe constructs a drift section of the given length.
func NewBeamPipe(name string, length float64, aperture Aperture) *BeamPipe {
	return &BeamPipe{base: newBase(name, length, aperture)}
}

func (p *BeamPipe) Type() Type              { return TypeBeamPipe }
func (p *BeamPipe) FieldSource() field.Source { return nil }

// Detector is a thin, field-free element that records every particle
// crossing without itself steering the beam.
type Detector struct {
	base
	hits []Hit
}

// Hit records a single particle's passage through a Detector.
type Hit struct {
	Time       float64
	Position   geom.Vec3
	Momentum   geom.Vec3
	ParticleID uint64
}

// detectorLength matches the reference implementation's thin-element
// convention: a detector occupies a negligible but nonzero slice of
// the beamline so containsS/prefix-sum bookkeeping still works.
const detectorLength = 0.001

// NewDetector constructs a detector at the given aperture.
func NewDetector(name string, aperture Aperture) *Detector {
	return &Detector{base: newBase(name, detectorLength, aperture)}
}

func (d *Detector) Type() Type              { return TypeDetector }
func (d *Detector) FieldSource() field.Source { return nil }

// RecordHit appends a hit record.
func (d *Detector) RecordHit(time float64, position, momentum geom.Vec3, particleID uint64) {
	d.hits = append(d.hits, Hit{Time: time, Position: position, Momentum: momentum, ParticleID: particleID})
}

// Hits returns every recorded hit, oldest first.
func (d *Detector) Hits() []Hit { return d.hits }

// ClearHits discards all recorded hits.
func (d *Detector) ClearHits() { d.hits = nil }

// HitCount returns the number of recorded hits.
func (d *Detector) HitCount() int { return len(d.hits) }
