// Package field defines electromagnetic field values, bounding
// boxes, the FieldSource capability trait, and the composite
// Manager that superposes them. Concrete sources (uniform
// dipole field, quadrupole gradient, RF cavity) live alongside the
// trait in this package; lattice components own instances of them
// and register them with a manager (see internal/lattice).
package field

import (
	"math"

	"github.com/san-kum/accelsim/internal/geom"
)

// Value is an electromagnetic field sample: E in V/m, B in Tesla.
// Value forms a commutative monoid under Add with identity (0, 0).
type Value struct {
	E geom.Vec3
	B geom.Vec3
}

// Add returns the component-wise sum of two field values.
func (v Value) Add(o Value) Value {
	return Value{E: v.E.Add(o.E), B: v.B.Add(o.B)}
}

// Box is an axis-aligned bounding box; Min/Max components may be
// +/-Inf to represent an unbounded extent along that axis.
type Box struct {
	Min, Max geom.Vec3
}

// UnboundedBox is a box with infinite extent in every direction.
func UnboundedBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: geom.Vec3{X: -inf, Y: -inf, Z: -inf},
		Max: geom.Vec3{X: inf, Y: inf, Z: inf},
	}
}

// Contains reports whether p lies within the box, inclusive of both
// bounds on every axis.
func (b Box) Contains(p geom.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IsInfinite reports whether any axis of the box is unbounded.
func (b Box) IsInfinite() bool {
	inf := math.Inf(1)
	return b.Min.X == -inf || b.Max.X == inf ||
		b.Min.Y == -inf || b.Max.Y == inf ||
		b.Min.Z == -inf || b.Max.Z == inf
}

// Source is the capability trait every field-producing object
// implements: it can be evaluated at a point and time, it exposes a
// bounding box, and it can be toggled on and off. Concrete variants
// are UniformB, Quadrupole, and RF, below.
type Source interface {
	Evaluate(position geom.Vec3, time float64) Value
	BoundingBox() Box
	Inside(position geom.Vec3) bool
	Enabled() bool
	SetEnabled(enabled bool)
}

// baseSource centralizes the enabled flag shared by every concrete
// Source implementation.
type baseSource struct {
	enabled bool
}

func (b *baseSource) Enabled() bool           { return b.enabled }
func (b *baseSource) SetEnabled(enabled bool) { b.enabled = enabled }
