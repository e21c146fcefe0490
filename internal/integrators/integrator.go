// Package integrators implements the four numerical schemes that
// advance a charged particle through an electromagnetic field one
// timestep at a time: Euler, velocity-Verlet, Boris, and RK4. Each
// satisfies the Integrator interface and is stateless, so a single
// instance is shared across an entire ensemble.
package integrators

import (
	"github.com/san-kum/accelsim/internal/field"
	"github.com/san-kum/accelsim/internal/particle"
)

// Integrator advances a single particle's position and momentum by dt
// under the field sampled from mgr at the given time. Inactive
// particles (already lost) are left untouched.
type Integrator interface {
	Step(p *particle.Particle, mgr *field.Manager, t, dt float64)
}

// Kind names the four supported schemes.
type Kind string

const (
	KindEuler  Kind = "Euler"
	KindVerlet Kind = "Verlet"
	KindBoris  Kind = "Boris"
	KindRK4    Kind = "RK4"
)

// registry maps every accepted spelling to a constructor. "Verlet" and
// "VelocityVerlet" both map to the velocity-Verlet integrator; Boris
// and RK4 are registered under their single canonical name, mirroring
// the accepted-name list of the reference implementation.
var registry = map[string]func() Integrator{
	"Euler":          func() Integrator { return NewEuler() },
	"Verlet":         func() Integrator { return NewVerlet() },
	"VelocityVerlet": func() Integrator { return NewVerlet() },
	"Boris":          func() Integrator { return NewBoris() },
	"RK4":            func() Integrator { return NewRK4() },
}

// Create builds the integrator for kind, defaulting to Boris — the
// phase-space-volume-preserving scheme recommended for magnetic
// lattices — for any name the registry doesn't recognize.
func Create(name string) Integrator {
	if ctor, ok := registry[name]; ok {
		return ctor()
	}
	return NewBoris()
}
