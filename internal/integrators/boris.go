package integrators

import (
	"math"

	"github.com/san-kum/accelsim/internal/field"
	"github.com/san-kum/accelsim/internal/particle"
	"github.com/san-kum/accelsim/internal/units"
)

// Boris is the classic charged-particle pusher: a half electric-field
// kick, an exact magnetic-field rotation via the Boris trick, and a
// closing half electric-field kick. It preserves phase-space volume
// under a pure magnetic field and is the recommended default for
// lattice tracking.
type Boris struct{}

// NewBoris returns a stateless Boris integrator.
func NewBoris() *Boris {
	return &Boris{}
}

func (b *Boris) Step(p *particle.Particle, mgr *field.Manager, t, dt float64) {
	if !p.Active() {
		return
	}

	pos := p.Position()
	mom := p.Momentum()
	q := p.Charge()
	m := p.Mass()

	f := mgr.Evaluate(pos, t)

	momMinus := mom.Add(f.E.Scale(q * dt * 0.5))

	pMag := momMinus.Length()
	ratio := pMag / (m * units.C)
	gamma := math.Sqrt(1 + ratio*ratio)

	tv := f.B.Scale(q * dt / (2 * gamma * m))
	tMag2 := tv.Dot(tv)
	sv := tv.Scale(2 / (1 + tMag2))

	uMinus := momMinus.Scale(1 / (gamma * m))
	uPrime := uMinus.Add(uMinus.Cross(tv))
	uPlus := uMinus.Add(uPrime.Cross(sv))

	momPlus := uPlus.Scale(gamma * m)

	newMom := momPlus.Add(f.E.Scale(q * dt * 0.5))
	p.SetMomentum(newMom)

	newVel := p.Velocity()
	p.SetPosition(pos.Add(newVel.Scale(dt)))
}
