package field

import (
	"math"

	"github.com/san-kum/accelsim/internal/geom"
)

// UniformB is a spatially constant magnetic field, used to model a
// dipole magnet's bend field. B is returned unchanged everywhere
// inside Bounds; Bounds may be UnboundedBox() for a field that fills
// all of space.
type UniformB struct {
	baseSource
	B      geom.Vec3
	Bounds Box
}

// NewUniformB constructs an enabled uniform B field over bounds.
func NewUniformB(b geom.Vec3, bounds Box) *UniformB {
	return &UniformB{baseSource: baseSource{enabled: true}, B: b, Bounds: bounds}
}

func (u *UniformB) BoundingBox() Box { return u.Bounds }

func (u *UniformB) Inside(position geom.Vec3) bool {
	return u.Bounds.Contains(position)
}

func (u *UniformB) Evaluate(position geom.Vec3, _ float64) Value {
	if !u.Bounds.Contains(position) {
		return Value{}
	}
	return Value{B: u.B}
}

// Quadrupole is a linear focusing/defocusing magnetic gradient field,
// centered at Center, extending Length/2 on either side along z and
// bounded transversely by Aperture. Gradient > 0 focuses in x.
type Quadrupole struct {
	baseSource
	Gradient float64 // T/m
	Center   geom.Vec3
	Length   float64
	Aperture float64
	bounds   Box
}

// NewQuadrupole constructs an enabled quadrupole field source.
func NewQuadrupole(gradient float64, center geom.Vec3, length, aperture float64) *Quadrupole {
	q := &Quadrupole{
		baseSource: baseSource{enabled: true},
		Gradient:   gradient,
		Center:     center,
		Length:     length,
		Aperture:   aperture,
	}
	q.rebuildBounds()
	return q
}

func (q *Quadrupole) rebuildBounds() {
	half := q.Length / 2
	q.bounds = Box{
		Min: geom.Vec3{X: q.Center.X - q.Aperture, Y: q.Center.Y - q.Aperture, Z: q.Center.Z - half},
		Max: geom.Vec3{X: q.Center.X + q.Aperture, Y: q.Center.Y + q.Aperture, Z: q.Center.Z + half},
	}
}

func (q *Quadrupole) BoundingBox() Box { return q.bounds }

func (q *Quadrupole) Inside(position geom.Vec3) bool {
	if !q.bounds.Contains(position) {
		return false
	}
	x, y := position.X-q.Center.X, position.Y-q.Center.Y
	return math.Hypot(x, y) <= q.Aperture
}

func (q *Quadrupole) Evaluate(position geom.Vec3, _ float64) Value {
	if !q.Inside(position) {
		return Value{}
	}
	x, y := position.X-q.Center.X, position.Y-q.Center.Y
	return Value{B: geom.Vec3{X: q.Gradient * y, Y: q.Gradient * x}}
}

// RF is an oscillating longitudinal electric field modelling an RF
// cavity: E_z = (V/L)*cos(omega*t + phase) inside the aperture and
// z window, zero elsewhere. B is always zero.
type RF struct {
	baseSource
	Voltage   float64 // V
	Frequency float64 // Hz
	omega     float64 // rad/s, cached from Frequency
	Phase     float64 // rad
	Center    geom.Vec3
	Length    float64
	Aperture  float64
	bounds    Box
}

// NewRF constructs an enabled RF cavity field source.
func NewRF(voltage, frequency, phase float64, center geom.Vec3, length, aperture float64) *RF {
	r := &RF{
		baseSource: baseSource{enabled: true},
		Voltage:    voltage,
		Frequency:  frequency,
		Phase:      phase,
		Center:     center,
		Length:     length,
		Aperture:   aperture,
	}
	r.omega = 2 * math.Pi * frequency
	r.rebuildBounds()
	return r
}

func (r *RF) rebuildBounds() {
	half := r.Length / 2
	r.bounds = Box{
		Min: geom.Vec3{X: r.Center.X - r.Aperture, Y: r.Center.Y - r.Aperture, Z: r.Center.Z - half},
		Max: geom.Vec3{X: r.Center.X + r.Aperture, Y: r.Center.Y + r.Aperture, Z: r.Center.Z + half},
	}
}

// SetFrequency updates Frequency and its cached angular frequency.
func (r *RF) SetFrequency(frequency float64) {
	r.Frequency = frequency
	r.omega = 2 * math.Pi * frequency
}

func (r *RF) BoundingBox() Box { return r.bounds }

func (r *RF) Inside(position geom.Vec3) bool {
	if !r.bounds.Contains(position) {
		return false
	}
	x, y := position.X-r.Center.X, position.Y-r.Center.Y
	return math.Hypot(x, y) <= r.Aperture
}

func (r *RF) Evaluate(position geom.Vec3, t float64) Value {
	if !r.Inside(position) {
		return Value{}
	}
	ez := (r.Voltage / r.Length) * math.Cos(r.omega*t+r.Phase)
	return Value{E: geom.Vec3{Z: ez}}
}
