package integrators

import (
	"github.com/san-kum/accelsim/internal/field"
	"github.com/san-kum/accelsim/internal/particle"
)

// Euler is the first-order scheme: it evaluates the Lorentz force
// once at the current position and advances momentum and position
// from it. Cheapest and least accurate of the four; kept for baseline
// comparison against Boris/RK4.
type Euler struct{}

// NewEuler returns a stateless Euler integrator.
func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(p *particle.Particle, mgr *field.Manager, t, dt float64) {
	if !p.Active() {
		return
	}

	pos := p.Position()
	mom := p.Momentum()
	v := p.Velocity()

	f := mgr.Evaluate(pos, t)
	q := p.Charge()
	force := f.E.Add(v.Cross(f.B)).Scale(q)

	p.SetMomentum(mom.Add(force.Scale(dt)))

	newVel := p.Velocity()
	p.SetPosition(pos.Add(newVel.Scale(dt)))
}
