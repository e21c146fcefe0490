package beam

import (
	"math"

	"github.com/san-kum/accelsim/internal/geom"
	"github.com/san-kum/accelsim/internal/units"
)

// Statistics summarizes an ensemble's phase-space distribution:
// counts, position/momentum moments, energy spread, and transverse
// emittance.
type Statistics struct {
	TotalParticles  int
	ActiveParticles int
	LostParticles   int

	MeanPosition geom.Vec3
	RMSSize      geom.Vec3

	MeanMomentum geom.Vec3
	RMSMomentum  geom.Vec3

	MeanEnergy float64
	RMSEnergy  float64
	MinEnergy  float64
	MaxEnergy  float64

	EmittanceX float64
	EmittanceY float64

	NormalizedEmittanceX float64
	NormalizedEmittanceY float64
}

// Compute returns the ensemble's statistics over its active
// particles. An ensemble with no particles, or no active particles,
// returns a zero-valued Statistics with the counts filled in.
func (e *Ensemble) Compute() Statistics {
	var stats Statistics
	stats.TotalParticles = len(e.particles)
	if stats.TotalParticles == 0 {
		return stats
	}

	active := make([]int, 0, len(e.particles))
	for i, p := range e.particles {
		if p.Active() {
			active = append(active, i)
		}
	}
	stats.ActiveParticles = len(active)
	stats.LostParticles = stats.TotalParticles - stats.ActiveParticles
	if len(active) == 0 {
		return stats
	}

	n := float64(len(active))

	var sumPos, sumMom geom.Vec3
	sumEnergy := 0.0
	stats.MinEnergy = e.particles[active[0]].KineticEnergy()
	stats.MaxEnergy = stats.MinEnergy

	for _, idx := range active {
		p := e.particles[idx]
		sumPos = sumPos.Add(p.Position())
		sumMom = sumMom.Add(p.Momentum())
		ke := p.KineticEnergy()
		sumEnergy += ke
		stats.MinEnergy = math.Min(stats.MinEnergy, ke)
		stats.MaxEnergy = math.Max(stats.MaxEnergy, ke)
	}

	stats.MeanPosition = sumPos.Scale(1 / n)
	stats.MeanMomentum = sumMom.Scale(1 / n)
	stats.MeanEnergy = sumEnergy / n

	var sumPosSq, sumMomSq geom.Vec3
	sumEnergySq := 0.0
	var sumX2, sumXp2, sumXXp float64
	var sumY2, sumYp2, sumYYp float64

	for _, idx := range active {
		p := e.particles[idx]
		dPos := p.Position().Sub(stats.MeanPosition)
		dMom := p.Momentum().Sub(stats.MeanMomentum)
		dEnergy := p.KineticEnergy() - stats.MeanEnergy

		sumPosSq = sumPosSq.Add(dPos.Mul(dPos))
		sumMomSq = sumMomSq.Add(dMom.Mul(dMom))
		sumEnergySq += dEnergy * dEnergy

		mom := p.Momentum()
		if math.Abs(mom.Z) > 1e-30 {
			xp := mom.X / mom.Z
			yp := mom.Y / mom.Z

			sumX2 += dPos.X * dPos.X
			sumXp2 += xp * xp
			sumXXp += dPos.X * xp

			sumY2 += dPos.Y * dPos.Y
			sumYp2 += yp * yp
			sumYYp += dPos.Y * yp
		}
	}

	stats.RMSSize = sumPosSq.Scale(1 / n).Sqrt()
	stats.RMSMomentum = sumMomSq.Scale(1 / n).Sqrt()
	stats.RMSEnergy = math.Sqrt(sumEnergySq / n)

	avgX2, avgXp2, avgXXp := sumX2/n, sumXp2/n, sumXXp/n
	stats.EmittanceX = math.Sqrt(math.Max(0, avgX2*avgXp2-avgXXp*avgXXp))

	avgY2, avgYp2, avgYYp := sumY2/n, sumYp2/n, sumYYp/n
	stats.EmittanceY = math.Sqrt(math.Max(0, avgY2*avgYp2-avgYYp*avgYYp))

	if pRef := e.referenceMomentum; pRef > 0 {
		mass := e.particles[active[0]].Mass()
		gamma := units.GammaFromMomentum(pRef, mass)
		betaGamma := units.BetaFromGamma(gamma) * gamma
		stats.NormalizedEmittanceX = betaGamma * stats.EmittanceX
		stats.NormalizedEmittanceY = betaGamma * stats.EmittanceY
	}

	return stats
}
