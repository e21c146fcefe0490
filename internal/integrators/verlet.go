package integrators

import (
	"github.com/san-kum/accelsim/internal/field"
	"github.com/san-kum/accelsim/internal/particle"
)

// Verlet is the second-order velocity-Verlet scheme: a half-step
// position update from the current velocity, followed by a full momentum update and a completing half-step using
// the new velocity. Symplectic for slowly varying fields, cheaper
// than RK4.
type Verlet struct{}

// NewVerlet returns a stateless velocity-Verlet integrator.
func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(p *particle.Particle, mgr *field.Manager, t, dt float64) {
	if !p.Active() {
		return
	}

	pos := p.Position()
	mom := p.Momentum()
	q := p.Charge()

	f := mgr.Evaluate(pos, t)
	vel := p.Velocity()
	force := f.E.Add(vel.Cross(f.B)).Scale(q)

	halfPos := pos.Add(vel.Scale(dt * 0.5))

	p.SetMomentum(mom.Add(force.Scale(dt)))

	newVel := p.Velocity()
	p.SetPosition(halfPos.Add(newVel.Scale(dt * 0.5)))
}
