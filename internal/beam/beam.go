// Package beam manages an ensemble of particles: generating one from
// statistical distributions, stepping every member through a field
// in parallel, computing aggregate statistics, and enforcing aperture
// losses.
package beam

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/accelsim/internal/field"
	"github.com/san-kum/accelsim/internal/geom"
	"github.com/san-kum/accelsim/internal/integrators"
	"github.com/san-kum/accelsim/internal/particle"
)

// Ensemble owns a slice of particles and a reference momentum used to
// express deviations as delta = (p - p0)/p0.
type Ensemble struct {
	particles         []*particle.Particle
	referenceMomentum float64
}

// New returns an empty ensemble.
func New() *Ensemble {
	return &Ensemble{}
}

// Add appends p to the ensemble.
func (e *Ensemble) Add(p *particle.Particle) {
	e.particles = append(e.particles, p)
}

// Clear removes every particle.
func (e *Ensemble) Clear() {
	e.particles = nil
}

// Count returns the total number of particles, active or lost.
func (e *Ensemble) Count() int { return len(e.particles) }

// ActiveCount returns the number of particles still marked active.
func (e *Ensemble) ActiveCount() int {
	n := 0
	for _, p := range e.particles {
		if p.Active() {
			n++
		}
	}
	return n
}

// Particles returns the full particle slice. Callers must not retain
// it past the next mutating call.
func (e *Ensemble) Particles() []*particle.Particle { return e.particles }

// At returns the particle at index.
func (e *Ensemble) At(index int) *particle.Particle { return e.particles[index] }

// RemoveInactive compacts the slice, dropping every lost particle.
func (e *Ensemble) RemoveInactive() {
	kept := e.particles[:0]
	for _, p := range e.particles {
		if p.Active() {
			kept = append(kept, p)
		}
	}
	e.particles = kept
}

// ReferenceMomentum returns the design momentum used for delta
// bookkeeping.
func (e *Ensemble) ReferenceMomentum() float64 { return e.referenceMomentum }

// SetReferenceMomentum sets the design momentum.
func (e *Ensemble) SetReferenceMomentum(p float64) { e.referenceMomentum = p }

// IsWithinAperture reports whether p's transverse radius is within
// radius of the beam axis.
func IsWithinAperture(p *particle.Particle, radius float64) bool {
	pos := p.Position()
	r := geom.Vec3{X: pos.X, Y: pos.Y}.Length()
	return r <= radius
}

// ApplyAperture marks every active particle whose transverse radius
// exceeds radius as lost, returning the number newly lost.
func (e *Ensemble) ApplyAperture(radius float64) int {
	lost := 0
	for _, p := range e.particles {
		if p.Active() && !IsWithinAperture(p, radius) {
			p.SetActive(false)
			lost++
		}
	}
	return lost
}

// StepAll advances every active particle by dt using integ against
// mgr, in parallel: the slice is split into chunks of about 64
// particles and each chunk runs in its own goroutine.
func (e *Ensemble) StepAll(ctx context.Context, integ integrators.Integrator, mgr *field.Manager, t, dt float64) error {
	g, _ := errgroup.WithContext(ctx)

	const minChunk = 64
	n := len(e.particles)
	if n == 0 {
		return nil
	}

	workers := 1
	if n > minChunk {
		workers = (n + minChunk - 1) / minChunk
	}
	chunk := (n + workers - 1) / workers

	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		s, en := start, end
		g.Go(func() error {
			for i := s; i < en; i++ {
				integ.Step(e.particles[i], mgr, t, dt)
			}
			return nil
		})
	}

	return g.Wait()
}
