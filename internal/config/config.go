// Package config loads and saves the engine's JSON configuration
// files: the run configuration (simulation/window/render), and the
// accelerator/lattice description. Unrecognized integrator codes fall
// back to Boris rather than erroring; unrecognized component types in
// an accelerator file are skipped by AcceleratorFile.ToLattice, not
// treated as errors.
package config

import (
	"encoding/json"
	"os"

	"github.com/san-kum/accelsim/internal/lattice"
)

// IntegratorCode is the JSON wire encoding of an integrator kind.
type IntegratorCode int

const (
	IntegratorEuler IntegratorCode = iota
	IntegratorVerlet
	IntegratorBoris
	IntegratorRK4
)

// Name returns the integrators.Create-compatible name for this code,
// defaulting to "Boris" for any value outside the known range.
func (c IntegratorCode) Name() string {
	switch c {
	case IntegratorEuler:
		return "Euler"
	case IntegratorVerlet:
		return "Verlet"
	case IntegratorRK4:
		return "RK4"
	default:
		return "Boris"
	}
}

// SimulationConfig is the "simulation" section of the run config.
type SimulationConfig struct {
	TimeStep       float64        `json:"timeStep"`
	TimeScale      float64        `json:"timeScale"`
	IntegratorType IntegratorCode `json:"integratorType"`
	ParticleCount  uint64         `json:"particleCount"`
	BeamEnergy     float64        `json:"beamEnergy"` // eV
}

// WindowConfig is opaque to the physics engine: it is carried through
// unmodified for the out-of-scope external renderer to consume.
type WindowConfig struct {
	Width      int  `json:"width"`
	Height     int  `json:"height"`
	VSync      bool `json:"vsync"`
	Fullscreen bool `json:"fullscreen"`
}

// RenderConfig is likewise opaque, carried through for the renderer.
type RenderConfig struct {
	Wireframe    bool    `json:"wireframe"`
	ShowGrid     bool    `json:"showGrid"`
	ShowAxes     bool    `json:"showAxes"`
	ParticleSize float64 `json:"particleSize"`
	ColorScheme  string  `json:"colorScheme"`
}

// RunConfig is the full run configuration file.
type RunConfig struct {
	Simulation SimulationConfig `json:"simulation"`
	Window     WindowConfig     `json:"window"`
	Render     RenderConfig     `json:"render"`
}

// DefaultRunConfig mirrors the reference engine's defaults: a 10ps
// timestep, real-time scale, Boris integration, a 1000-particle 1GeV
// beam.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Simulation: SimulationConfig{
			TimeStep:       1e-11,
			TimeScale:      1.0,
			IntegratorType: IntegratorBoris,
			ParticleCount:  1000,
			BeamEnergy:     1e9,
		},
		Window: WindowConfig{Width: 1280, Height: 720},
		Render: RenderConfig{ShowGrid: true, ShowAxes: true, ParticleSize: 1.0},
	}
}

// LoadRunConfig reads and parses a run configuration file, starting
// from DefaultRunConfig so any section the file omits keeps its
// default value.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultRunConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveRunConfig writes cfg as indented JSON.
func SaveRunConfig(path string, cfg *RunConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ComponentSpec is one entry in an AcceleratorFile's component list.
// Type is one of the lowercase tags "drift"/"beampipe", "dipole",
// "quadrupole", "rfcavity", "detector", matching the wire convention
// of the external configuration contract. Fields not relevant to
// Type are left at their zero value.
type ComponentSpec struct {
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	Length    float64 `json:"length"`
	Aperture  float64 `json:"aperture"`
	SPosition float64 `json:"sPosition"`

	Field     float64 `json:"field,omitempty"`     // dipole, T
	Gradient  float64 `json:"gradient,omitempty"`  // quadrupole, T/m
	Voltage   float64 `json:"voltage,omitempty"`   // rfcavity, V
	Frequency float64 `json:"frequency,omitempty"` // rfcavity, Hz
	Phase     float64 `json:"phase,omitempty"`     // rfcavity, rad
}

// AcceleratorFile is the on-disk lattice description.
type AcceleratorFile struct {
	LatticeType string          `json:"latticeType"` // "linear" | "circular"
	TotalLength float64         `json:"totalLength"`
	Components  []ComponentSpec `json:"components"`
}

// LoadAcceleratorFile reads and parses a lattice description file.
func LoadAcceleratorFile(path string) (*AcceleratorFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file AcceleratorFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// ToLattice materializes the on-disk description into a lattice.Lattice,
// in file order. "drift" is accepted as an alias for "beampipe",
// matching the original config loader. A ComponentSpec whose Type
// does not name one of the known component kinds is skipped and
// loading continues with the next entry, per the engine's
// config-domain error policy.
func (f *AcceleratorFile) ToLattice() *lattice.Lattice {
	lat := lattice.New()
	for _, cs := range f.Components {
		aperture := lattice.Aperture{Shape: lattice.ApertureCircular, RadiusX: cs.Aperture, RadiusY: cs.Aperture}

		var c lattice.Component
		switch cs.Type {
		case "drift", "beampipe":
			c = lattice.NewBeamPipe(cs.Name, cs.Length, aperture)
		case "dipole":
			c = lattice.NewDipole(cs.Name, cs.Length, cs.Field, aperture)
		case "quadrupole":
			c = lattice.NewQuadrupole(cs.Name, cs.Length, cs.Gradient, aperture)
		case "rfcavity":
			c = lattice.NewRFCavity(cs.Name, cs.Length, cs.Voltage, cs.Frequency, cs.Phase, aperture)
		case "detector":
			c = lattice.NewDetector(cs.Name, aperture)
		default:
			continue
		}
		lat.AddComponent(c)
	}

	if f.LatticeType == "circular" {
		lat.CloseRing()
	} else {
		lat.ComputeLattice()
	}
	return lat
}

// SaveAcceleratorFile writes file as indented JSON.
func SaveAcceleratorFile(path string, file *AcceleratorFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
