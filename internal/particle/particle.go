// Package particle models a single relativistic charged particle:
// its phase-space state (position, momentum) and the derived
// relativistic invariants (gamma, beta) that every mutator keeps in
// sync.
package particle

import (
	"math"
	"sync/atomic"

	"github.com/san-kum/accelsim/internal/geom"
	"github.com/san-kum/accelsim/internal/units"
)

// nextID is the process-wide monotonic particle id counter. Density
// is not required, only uniqueness, so a plain atomic counter
// suffices even under the parallel per-particle integration path in
// internal/beam.
var nextID uint64

// maxSubluminalFraction is the closest a set-velocity call will
// approach c before saturating; see Particle.SetVelocity.
const maxSubluminalFraction = 0.999999

// Particle is the atomic unit of beam dynamics state.
type Particle struct {
	id       uint64
	position geom.Vec3
	momentum geom.Vec3

	mass       float64 // kg, > 0
	charge     float64 // C, may be negative
	restEnergy float64 // J, mass*c^2

	gamma float64 // Lorentz factor, >= 1
	beta  float64 // v/c, in [0,1)

	active bool
}

// New constructs a particle of the given rest mass and charge at the
// given position and momentum. Callers are responsible for supplying
// physically sensible (finite, mass > 0) inputs; per spec this is a
// caller obligation, not a validated precondition.
func New(mass, charge float64, position, momentum geom.Vec3) *Particle {
	p := &Particle{
		id:         atomic.AddUint64(&nextID, 1) - 1,
		position:   position,
		momentum:   momentum,
		mass:       mass,
		charge:     charge,
		restEnergy: mass * units.C2,
		gamma:      1,
		beta:       0,
		active:     true,
	}
	p.updateDerived()
	return p
}

// Electron constructs an electron at the given position and momentum.
func Electron(position, momentum geom.Vec3) *Particle {
	return New(units.ElectronMass, -units.ElementaryCharge, position, momentum)
}

// Positron constructs a positron at the given position and momentum.
func Positron(position, momentum geom.Vec3) *Particle {
	return New(units.ElectronMass, units.ElementaryCharge, position, momentum)
}

// Proton constructs a proton at the given position and momentum.
func Proton(position, momentum geom.Vec3) *Particle {
	return New(units.ProtonMass, units.ElementaryCharge, position, momentum)
}

// Antiproton constructs an antiproton at the given position and momentum.
func Antiproton(position, momentum geom.Vec3) *Particle {
	return New(units.ProtonMass, -units.ElementaryCharge, position, momentum)
}

// ID returns the particle's process-wide unique id.
func (p *Particle) ID() uint64 { return p.id }

// Position returns the particle's position in meters.
func (p *Particle) Position() geom.Vec3 { return p.position }

// SetPosition sets the position without touching any relativistic
// invariant (position carries no momentum information).
func (p *Particle) SetPosition(pos geom.Vec3) { p.position = pos }

// Momentum returns the particle's momentum in kg*m/s.
func (p *Particle) Momentum() geom.Vec3 { return p.momentum }

// SetMomentum sets the momentum and recomputes gamma/beta.
func (p *Particle) SetMomentum(mom geom.Vec3) {
	p.momentum = mom
	p.updateDerived()
}

// SetPx, SetPy, SetPz set an individual momentum component and
// recompute gamma/beta.
func (p *Particle) SetPx(px float64) { p.momentum.X = px; p.updateDerived() }
func (p *Particle) SetPy(py float64) { p.momentum.Y = py; p.updateDerived() }
func (p *Particle) SetPz(pz float64) { p.momentum.Z = pz; p.updateDerived() }

// MomentumMagnitude returns |p|.
func (p *Particle) MomentumMagnitude() float64 { return p.momentum.Length() }

// Mass returns the rest mass in kg.
func (p *Particle) Mass() float64 { return p.mass }

// Charge returns the electric charge in Coulombs.
func (p *Particle) Charge() float64 { return p.charge }

// RestEnergy returns m*c^2 in Joules.
func (p *Particle) RestEnergy() float64 { return p.restEnergy }

// Gamma returns the cached Lorentz factor.
func (p *Particle) Gamma() float64 { return p.gamma }

// Beta returns the cached v/c.
func (p *Particle) Beta() float64 { return p.beta }

// Speed returns |v| = beta*c in m/s.
func (p *Particle) Speed() float64 { return p.beta * units.C }

// Velocity returns v = p/(gamma*m).
func (p *Particle) Velocity() geom.Vec3 {
	if p.gamma <= 0 || p.mass <= 0 {
		return geom.Vec3{}
	}
	return p.momentum.Scale(1 / (p.gamma * p.mass))
}

// SetVelocity sets momentum from a velocity vector, clamping the
// speed to maxSubluminalFraction*c if the caller requests |v| >= c.
// This is the engine's sole internal numeric-saturation guard (§7).
func (p *Particle) SetVelocity(v geom.Vec3) {
	speed := v.Length()
	switch {
	case speed >= units.C:
		scale := maxSubluminalFraction * units.C / speed
		clamped := v.Scale(scale)
		speed = clamped.Length()
		p.beta = speed / units.C
		p.gamma = units.GammaFromBeta(p.beta)
		p.momentum = clamped.Scale(p.gamma * p.mass)
	case speed > 0:
		p.beta = speed / units.C
		p.gamma = units.GammaFromBeta(p.beta)
		p.momentum = v.Scale(p.gamma * p.mass)
	default:
		p.beta = 0
		p.gamma = 1
		p.momentum = geom.Vec3{}
	}
}

// TotalEnergy returns E = gamma*m*c^2.
func (p *Particle) TotalEnergy() float64 { return units.TotalEnergyFromGamma(p.gamma, p.mass) }

// KineticEnergy returns K = (gamma-1)*m*c^2.
func (p *Particle) KineticEnergy() float64 {
	return units.KineticEnergyFromGamma(p.gamma, p.mass)
}

// SetKineticEnergy sets gamma/beta from a kinetic energy and
// recomputes momentum along direction (normalized). If direction is
// near-zero, the current momentum direction is reused, falling back
// to +z if the particle currently carries no momentum.
func (p *Particle) SetKineticEnergy(kineticEnergy float64, direction geom.Vec3) {
	p.gamma = 1 + kineticEnergy/p.restEnergy
	p.beta = units.BetaFromGamma(p.gamma)

	dir := direction
	if dir.IsNearZero() {
		mag := p.MomentumMagnitude()
		if mag > 1e-30 {
			dir = p.momentum.Scale(1 / mag)
		} else {
			dir = geom.Vec3{Z: 1}
		}
	} else {
		dir = dir.Normalize()
	}

	momentumMag := p.gamma * p.beta * p.mass * units.C
	p.momentum = dir.Scale(momentumMag)
}

// Delta returns the relative momentum deviation (|p|-p0)/p0 against
// a reference momentum p0.
func (p *Particle) Delta(referenceMomentum float64) float64 {
	return (p.MomentumMagnitude() - referenceMomentum) / referenceMomentum
}

// Active reports whether the particle is still tracked (not lost).
func (p *Particle) Active() bool { return p.active }

// SetActive marks the particle active or lost.
func (p *Particle) SetActive(active bool) { p.active = active }

func (p *Particle) updateDerived() {
	mag := p.MomentumMagnitude()
	if mag > 0 && p.mass > 0 {
		pOverMc := mag / (p.mass * units.C)
		p.gamma = math.Sqrt(1 + pOverMc*pOverMc)
		p.beta = units.BetaFromGamma(p.gamma)
	} else {
		p.gamma = 1
		p.beta = 0
	}
}
