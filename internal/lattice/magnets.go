package lattice

import (
	"math"

	"github.com/san-kum/accelsim/internal/field"
	"github.com/san-kum/accelsim/internal/geom"
	"github.com/san-kum/accelsim/internal/units"
)

// Dipole bends the beam with a uniform vertical field over its
// length. Its field source is rebuilt lazily: any mutator that
// affects the field (SetField, SetPosition) invalidates
// the cached source, and the next FieldSource call rebuilds it from
// current parameters.
type Dipole struct {
	base
	field float64 // Tesla
	src   *field.UniformB
	dirty bool
}

// NewDipole constructs a bending magnet of the given effective length
// and vertical field strength.
func NewDipole(name string, length, fieldT float64, aperture Aperture) *Dipole {
	return &Dipole{base: newBase(name, length, aperture), field: fieldT, dirty: true}
}

func (d *Dipole) Type() Type { return TypeDipole }

// Field returns the vertical field strength in Tesla.
func (d *Dipole) Field() float64 { return d.field }

// SetField updates the field strength and invalidates the cached
// field source.
func (d *Dipole) SetField(f float64) { d.field = f; d.dirty = true }

func (d *Dipole) SetPosition(p geom.Vec3) { d.base.SetPosition(p); d.dirty = true }

func (d *Dipole) FieldSource() field.Source {
	if d.dirty || d.src == nil {
		half := d.length / 2
		r := d.aperture.RadiusX
		bounds := field.Box{
			Min: geom.Vec3{X: d.position.X - r, Y: d.position.Y - r, Z: d.position.Z - half},
			Max: geom.Vec3{X: d.position.X + r, Y: d.position.Y + r, Z: d.position.Z + half},
		}
		d.src = field.NewUniformB(geom.Vec3{Y: d.field}, bounds)
		d.dirty = false
	}
	return d.src
}

// BendingAngle returns theta = q*B*L/p for a reference momentum p
// (kg*m/s).
func (d *Dipole) BendingAngle(momentum float64) float64 {
	return units.ElementaryCharge * math.Abs(d.field) * d.length / momentum
}

// BendingRadius returns rho = p/(q*B); +Inf for a zero field.
func (d *Dipole) BendingRadius(momentum float64) float64 {
	if math.Abs(d.field) < 1e-10 {
		return math.Inf(1)
	}
	return momentum / (units.ElementaryCharge * math.Abs(d.field))
}

// Quadrupole is a linear gradient magnet: positive Gradient focuses
// in x (defocuses in y), negative does the reverse.
type Quadrupole struct {
	base
	gradient float64 // T/m
	src      *field.Quadrupole
	dirty    bool
}

// NewQuadrupole constructs a quadrupole magnet.
func NewQuadrupole(name string, length, gradient float64, aperture Aperture) *Quadrupole {
	return &Quadrupole{base: newBase(name, length, aperture), gradient: gradient, dirty: true}
}

func (q *Quadrupole) Type() Type { return TypeQuadrupole }

// Gradient returns the field gradient in T/m.
func (q *Quadrupole) Gradient() float64 { return q.gradient }

// SetGradient updates the gradient and invalidates the cached source.
func (q *Quadrupole) SetGradient(g float64) { q.gradient = g; q.dirty = true }

func (q *Quadrupole) SetPosition(p geom.Vec3) { q.base.SetPosition(p); q.dirty = true }

func (q *Quadrupole) FieldSource() field.Source {
	if q.dirty || q.src == nil {
		q.src = field.NewQuadrupole(q.gradient, q.position, q.length, q.aperture.RadiusX)
		q.dirty = false
	}
	return q.src
}

// K1 returns the normalized focusing strength K1 = q*G/p in m^-2.
func (q *Quadrupole) K1(momentum float64) float64 {
	return units.ElementaryCharge * q.gradient / momentum
}

// IsFocusing reports whether this quadrupole focuses the horizontal
// plane (positive gradient).
func (q *Quadrupole) IsFocusing() bool { return q.gradient > 0 }

// RFCavity accelerates the beam with an oscillating longitudinal
// field.
type RFCavity struct {
	base
	voltage   float64 // V
	frequency float64 // Hz
	phase     float64 // rad
	src       *field.RF
	dirty     bool
}

// NewRFCavity constructs an RF cavity.
func NewRFCavity(name string, length, voltage, frequency, phase float64, aperture Aperture) *RFCavity {
	return &RFCavity{
		base:      newBase(name, length, aperture),
		voltage:   voltage,
		frequency: frequency,
		phase:     phase,
		dirty:     true,
	}
}

func (r *RFCavity) Type() Type { return TypeRFCavity }

// Voltage returns the peak voltage in Volts.
func (r *RFCavity) Voltage() float64 { return r.voltage }

// SetVoltage updates the voltage and invalidates the cached source.
func (r *RFCavity) SetVoltage(v float64) { r.voltage = v; r.dirty = true }

// Frequency returns the RF frequency in Hz.
func (r *RFCavity) Frequency() float64 { return r.frequency }

// SetFrequency updates the frequency and invalidates the cached source.
func (r *RFCavity) SetFrequency(f float64) { r.frequency = f; r.dirty = true }

// Phase returns the synchronous phase in radians.
func (r *RFCavity) Phase() float64 { return r.phase }

// SetPhase updates the phase and invalidates the cached source.
func (r *RFCavity) SetPhase(p float64) { r.phase = p; r.dirty = true }

func (r *RFCavity) SetPosition(p geom.Vec3) { r.base.SetPosition(p); r.dirty = true }

func (r *RFCavity) FieldSource() field.Source {
	if r.dirty || r.src == nil {
		r.src = field.NewRF(r.voltage, r.frequency, r.phase, r.position, r.length, r.aperture.RadiusX)
		r.dirty = false
	}
	return r.src
}

// EnergyGain returns q*V*cos(phase) in Joules for a particle crossing
// at the given phase offset relative to the RF.
func (r *RFCavity) EnergyGain(phaseOffset float64) float64 {
	return units.ElementaryCharge * r.voltage * math.Cos(phaseOffset)
}
