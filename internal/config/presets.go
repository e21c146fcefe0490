package config

import (
	"github.com/san-kum/accelsim/internal/beam"
	"github.com/san-kum/accelsim/internal/geom"
	"github.com/san-kum/accelsim/internal/units"
)

// BeamPresets is a two-level registry of named beam.Parameters, keyed
// first by species and then by preset name, mirroring the reference
// engine's model/preset preset library.
var BeamPresets = map[string]map[string]beam.Parameters{
	"proton": {
		"injection": {
			Species: beam.SpeciesProton, NumParticles: 1000,
			KineticEnergy: 50 * units.MeV,
			SigmaX:        2e-3, SigmaY: 2e-3, SigmaZ: 5e-2,
			SigmaPx: 5e-4, SigmaPy: 5e-4, SigmaDelta: 2e-3,
			Direction: geom.Vec3{Z: 1}, Distribution: beam.DistributionGaussian, Seed: 1,
		},
		"collision": {
			Species: beam.SpeciesProton, NumParticles: 5000,
			KineticEnergy: 7 * units.TeV,
			SigmaX:        1.6e-5, SigmaY: 1.6e-5, SigmaZ: 7.5e-2,
			SigmaPx: 1e-5, SigmaPy: 1e-5, SigmaDelta: 1e-4,
			Direction: geom.Vec3{Z: 1}, Distribution: beam.DistributionGaussian, Seed: 2,
		},
		"waterbag_test": {
			Species: beam.SpeciesProton, NumParticles: 1000,
			KineticEnergy: 1 * units.GeV,
			SigmaX:        1e-3, SigmaY: 1e-3, SigmaZ: 1e-2,
			SigmaPx: 1e-4, SigmaPy: 1e-4, SigmaDelta: 1e-3,
			Direction: geom.Vec3{Z: 1}, Distribution: beam.DistributionWaterbag, Seed: 3,
		},
	},
	"electron": {
		"linac": {
			Species: beam.SpeciesElectron, NumParticles: 2000,
			KineticEnergy: 100 * units.MeV,
			SigmaX:        1e-4, SigmaY: 1e-4, SigmaZ: 1e-3,
			SigmaPx: 1e-4, SigmaPy: 1e-4, SigmaDelta: 5e-3,
			Direction: geom.Vec3{Z: 1}, Distribution: beam.DistributionGaussian, Seed: 4,
		},
		"storage_ring": {
			Species: beam.SpeciesElectron, NumParticles: 3000,
			KineticEnergy: 3 * units.GeV,
			SigmaX:        3e-5, SigmaY: 3e-6, SigmaZ: 5e-3,
			SigmaPx: 2e-5, SigmaPy: 2e-6, SigmaDelta: 1e-3,
			Direction: geom.Vec3{Z: 1}, Distribution: beam.DistributionUniform, Seed: 5,
		},
	},
	"positron": {
		"linac": {
			Species: beam.SpeciesPositron, NumParticles: 2000,
			KineticEnergy: 100 * units.MeV,
			SigmaX:        1e-4, SigmaY: 1e-4, SigmaZ: 1e-3,
			SigmaPx: 1e-4, SigmaPy: 1e-4, SigmaDelta: 5e-3,
			Direction: geom.Vec3{Z: 1}, Distribution: beam.DistributionGaussian, Seed: 6,
		},
	},
	"antiproton": {
		"cooling_ring": {
			Species: beam.SpeciesAntiproton, NumParticles: 500,
			KineticEnergy: 200 * units.MeV,
			SigmaX:        5e-3, SigmaY: 5e-3, SigmaZ: 0.1,
			SigmaPx: 1e-3, SigmaPy: 1e-3, SigmaDelta: 5e-3,
			Direction: geom.Vec3{Z: 1}, Distribution: beam.DistributionGaussian, Seed: 7,
		},
	},
}

// GetBeamPreset looks up a named beam preset, returning (params, true)
// on success or (zero value, false) if the species or preset name is
// unrecognized.
func GetBeamPreset(species, preset string) (beam.Parameters, bool) {
	speciesPresets, ok := BeamPresets[species]
	if !ok {
		return beam.Parameters{}, false
	}
	params, ok := speciesPresets[preset]
	return params, ok
}

// ListBeamPresets returns the preset names available for a species, or
// nil if the species is unrecognized.
func ListBeamPresets(species string) []string {
	speciesPresets, ok := BeamPresets[species]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(speciesPresets))
	for name := range speciesPresets {
		names = append(names, name)
	}
	return names
}
