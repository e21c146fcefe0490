package analysis

import (
	"math"

	"github.com/san-kum/accelsim/internal/field"
	"github.com/san-kum/accelsim/internal/geom"
	"github.com/san-kum/accelsim/internal/integrators"
	"github.com/san-kum/accelsim/internal/particle"
)

// LyapunovExponent estimates the largest Lyapunov exponent of a single
// particle's motion in mgr by the trajectory separation method: two
// copies of p0, offset by perturbation along x, are integrated in
// parallel and their separation's exponential growth rate is measured.
//
// A positive result means nearby particles diverge exponentially —
// the transverse dynamics near p0 are chaotic rather than regular,
// typically because p0 sits on or near a resonance.
func LyapunovExponent(
	integ integrators.Integrator,
	mgr *field.Manager,
	p0 *particle.Particle,
	dt, duration, perturbation float64,
) float64 {
	p := particle.New(p0.Mass(), p0.Charge(), p0.Position(), p0.Momentum())
	pPos := p0.Position()
	pPos.X += perturbation
	pPerturbed := particle.New(p0.Mass(), p0.Charge(), pPos, p0.Momentum())

	d0 := perturbation
	sumLog := 0.0
	count := 0

	for t := 0.0; t < duration; t += dt {
		integ.Step(p, mgr, t, dt)
		integ.Step(pPerturbed, mgr, t, dt)

		sep := p.Position().Sub(pPerturbed.Position()).Length()
		if sep > 0 && d0 > 0 {
			sumLog += math.Log(sep / d0)
			count++
		}

		if sep > 1e-3 {
			scale := d0 / sep
			diff := pPerturbed.Position().Sub(p.Position()).Scale(scale)
			pPerturbed.SetPosition(p.Position().Add(diff))
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}

// LyapunovSpectrum perturbs each of x, y, z independently and returns
// the resulting three exponents, one per transverse/longitudinal axis.
func LyapunovSpectrum(
	integ integrators.Integrator,
	mgr *field.Manager,
	p0 *particle.Particle,
	dt, duration, perturbation float64,
) []float64 {
	axes := []geom.Vec3{{X: 1}, {Y: 1}, {Z: 1}}
	spectrum := make([]float64, len(axes))

	for i, axis := range axes {
		p := particle.New(p0.Mass(), p0.Charge(), p0.Position(), p0.Momentum())
		perturbedPos := p0.Position().Add(axis.Scale(perturbation))
		pPerturbed := particle.New(p0.Mass(), p0.Charge(), perturbedPos, p0.Momentum())

		d0 := perturbation
		sumLog := 0.0
		count := 0

		for t := 0.0; t < duration; t += dt {
			integ.Step(p, mgr, t, dt)
			integ.Step(pPerturbed, mgr, t, dt)

			sep := p.Position().Sub(pPerturbed.Position()).Length()
			if sep > 0 && d0 > 0 {
				sumLog += math.Log(sep / d0)
				count++
			}
			if sep > 1e-3 {
				scale := d0 / sep
				diff := pPerturbed.Position().Sub(p.Position()).Scale(scale)
				pPerturbed.SetPosition(p.Position().Add(diff))
			}
		}

		if count > 0 {
			spectrum[i] = sumLog / (float64(count) * dt)
		}
	}

	return spectrum
}
