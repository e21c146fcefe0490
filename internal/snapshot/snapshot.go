// Package snapshot is the engine's one read-only window onto live
// simulation state, meant for an external renderer or diagnostic tool
// that must never be able to mutate the physics core it displays.
// Every value returned here is a copy: no pointer into engine-owned
// state ever crosses this boundary.
package snapshot

import (
	"github.com/san-kum/accelsim/internal/beam"
	"github.com/san-kum/accelsim/internal/geom"
	"github.com/san-kum/accelsim/internal/lattice"
)

// Particle is a read-only view of one particle's state.
type Particle struct {
	ID            uint64
	Position      geom.Vec3
	Momentum      geom.Vec3
	KineticEnergy float64
	Charge        float64
	Active        bool
}

// Particles returns a read-only snapshot of every particle in ens, in
// storage order. The returned slice shares no memory with ens.
func Particles(ens *beam.Ensemble) []Particle {
	out := make([]Particle, ens.Count())
	for i := 0; i < ens.Count(); i++ {
		p := ens.At(i)
		out[i] = Particle{
			ID:            p.ID(),
			Position:      p.Position(),
			Momentum:      p.Momentum(),
			KineticEnergy: p.KineticEnergy(),
			Charge:        p.Charge(),
			Active:        p.Active(),
		}
	}
	return out
}

// Component is a read-only view of one lattice component, with
// type-specific parameters carried in the fields relevant to Type and
// left zero otherwise.
type Component struct {
	Type      lattice.Type
	Name      string
	SPosition float64
	Length    float64
	Aperture  lattice.Aperture

	Field     float64 // dipole, T
	Gradient  float64 // quadrupole, T/m
	Voltage   float64 // rfcavity, V
	Frequency float64 // rfcavity, Hz
	Phase     float64 // rfcavity, rad
}

// Components returns a read-only snapshot of every component in lat,
// in lattice order.
func Components(lat *lattice.Lattice) []Component {
	comps := lat.Components()
	out := make([]Component, len(comps))
	for i, c := range comps {
		snap := Component{
			Type:      c.Type(),
			Name:      c.Name(),
			SPosition: c.SPosition(),
			Length:    c.Length(),
			Aperture:  c.Aperture(),
		}
		switch v := c.(type) {
		case *lattice.Dipole:
			snap.Field = v.Field()
		case *lattice.Quadrupole:
			snap.Gradient = v.Gradient()
		case *lattice.RFCavity:
			snap.Voltage = v.Voltage()
			snap.Frequency = v.Frequency()
			snap.Phase = v.Phase()
		}
		out[i] = snap
	}
	return out
}
