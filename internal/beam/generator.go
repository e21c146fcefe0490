package beam

import (
	"math"
	"math/rand"

	"github.com/san-kum/accelsim/internal/geom"
	"github.com/san-kum/accelsim/internal/particle"
	"github.com/san-kum/accelsim/internal/units"
)

// Species names the particle type a Generator produces.
type Species string

const (
	SpeciesElectron   Species = "Electron"
	SpeciesPositron   Species = "Positron"
	SpeciesProton     Species = "Proton"
	SpeciesAntiproton Species = "Antiproton"
)

// Distribution names the phase-space sampling scheme.
type Distribution string

const (
	DistributionGaussian Distribution = "Gaussian"
	DistributionUniform  Distribution = "Uniform"
	DistributionWaterbag Distribution = "Waterbag"
)

// Parameters fully describes a beam to be generated: species, energy,
// spatial and momentum spreads, direction, and the seed that makes
// the draw reproducible.
type Parameters struct {
	Species       Species `json:"species"`
	NumParticles  int     `json:"numParticles"`
	KineticEnergy float64 `json:"kineticEnergy"` // Joules

	SigmaX     float64 `json:"sigmaX"` // m
	SigmaY     float64 `json:"sigmaY"` // m
	SigmaZ     float64 `json:"sigmaZ"` // m
	SigmaPx    float64 `json:"sigmaPx"`
	SigmaPy    float64 `json:"sigmaPy"`
	SigmaDelta float64 `json:"sigmaDelta"` // relative momentum spread

	PositionOffset geom.Vec3 `json:"positionOffset"`
	Direction      geom.Vec3 `json:"direction"`

	Distribution Distribution `json:"distribution"`
	Seed         uint64       `json:"seed"`
}

// DefaultParameters mirrors the reference implementation's defaults:
// a 1000-particle, 1 GeV proton beam with millimeter-scale spot size.
func DefaultParameters() Parameters {
	return Parameters{
		Species:       SpeciesProton,
		NumParticles:  1000,
		KineticEnergy: 1 * units.GeV,
		SigmaX:        1e-3,
		SigmaY:        1e-3,
		SigmaZ:        1e-2,
		SigmaPx:       1e-4,
		SigmaPy:       1e-4,
		SigmaDelta:    1e-3,
		Direction:     geom.Vec3{Z: 1},
		Distribution:  DistributionGaussian,
		Seed:          42,
	}
}

func speciesFactory(s Species) func(position, momentum geom.Vec3) *particle.Particle {
	switch s {
	case SpeciesElectron:
		return particle.Electron
	case SpeciesPositron:
		return particle.Positron
	case SpeciesAntiproton:
		return particle.Antiproton
	default:
		return particle.Proton
	}
}

// Generate draws params.NumParticles particles from the requested
// distribution, seeded by params.Seed so repeated calls with the same
// parameters yield bit-identical ensembles.
func Generate(params Parameters) *Ensemble {
	ens := New()
	factory := speciesFactory(params.Species)
	ref := factory(geom.Vec3{}, geom.Vec3{})
	mass := ref.Mass()

	gamma := units.GammaFromKineticEnergy(params.KineticEnergy, mass)
	betaVal := units.BetaFromGamma(gamma)
	pRef := gamma * betaVal * mass * units.C
	ens.SetReferenceMomentum(pRef)

	dir := params.Direction
	if dir.IsNearZero() {
		dir = geom.Vec3{Z: 1}
	} else {
		dir = dir.Normalize()
	}

	perpX, perpY := transverseBasis(dir)

	rng := rand.New(rand.NewSource(int64(params.Seed)))

	for i := 0; i < params.NumParticles; i++ {
		p := factory(geom.Vec3{}, geom.Vec3{})

		dx, dy, dz := samplePosition(rng, params)
		p.SetPosition(params.PositionOffset.Add(geom.Vec3{X: dx, Y: dy, Z: dz}))

		dpx, dpy, delta := sampleMomentum(rng, params)
		pMag := pRef * (1 + delta)

		momentum := dir.Scale(pMag)
		momentum = momentum.Add(perpX.Scale(pRef * dpx)).Add(perpY.Scale(pRef * dpy))
		p.SetMomentum(momentum)

		ens.Add(p)
	}

	return ens
}

// transverseBasis builds two unit vectors perpendicular to dir,
// picking the least-aligned coordinate axis as a seed to avoid a
// degenerate cross product.
func transverseBasis(dir geom.Vec3) (geom.Vec3, geom.Vec3) {
	var perpX geom.Vec3
	if math.Abs(dir.Y) < 0.9 {
		perpX = dir.Cross(geom.Vec3{Y: 1}).Normalize()
	} else {
		perpX = dir.Cross(geom.Vec3{X: 1}).Normalize()
	}
	perpY := dir.Cross(perpX)
	return perpX, perpY
}

func samplePosition(rng *rand.Rand, params Parameters) (dx, dy, dz float64) {
	switch params.Distribution {
	case DistributionUniform:
		s3 := math.Sqrt(3.0)
		return uniform11(rng) * params.SigmaX * s3,
			uniform11(rng) * params.SigmaY * s3,
			uniform11(rng) * params.SigmaZ * s3
	case DistributionWaterbag:
		r := math.Cbrt(math.Abs(uniform11(rng)))
		theta := math.Acos(uniform11(rng))
		phi := uniform11(rng) * math.Pi
		return r * math.Sin(theta) * math.Cos(phi) * params.SigmaX,
			r * math.Sin(theta) * math.Sin(phi) * params.SigmaY,
			r * math.Cos(theta) * params.SigmaZ
	default: // Gaussian
		return rng.NormFloat64() * params.SigmaX,
			rng.NormFloat64() * params.SigmaY,
			rng.NormFloat64() * params.SigmaZ
	}
}

func sampleMomentum(rng *rand.Rand, params Parameters) (dpx, dpy, delta float64) {
	if params.Distribution == DistributionGaussian {
		return rng.NormFloat64() * params.SigmaPx,
			rng.NormFloat64() * params.SigmaPy,
			rng.NormFloat64() * params.SigmaDelta
	}
	s3 := math.Sqrt(3.0)
	return uniform11(rng) * params.SigmaPx * s3,
		uniform11(rng) * params.SigmaPy * s3,
		uniform11(rng) * params.SigmaDelta * s3
}

// uniform11 draws a uniform sample in [-1, 1), matching the reference
// engine's uniform_real_distribution(-1, 1).
func uniform11(rng *rand.Rand) float64 {
	return rng.Float64()*2 - 1
}
