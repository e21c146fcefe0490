package snapshot

import (
	"testing"

	"github.com/san-kum/accelsim/internal/beam"
	"github.com/san-kum/accelsim/internal/geom"
	"github.com/san-kum/accelsim/internal/lattice"
	"github.com/san-kum/accelsim/internal/particle"
)

func TestParticlesSnapshotDoesNotAliasEnsemble(t *testing.T) {
	ens := beam.New()
	ens.Add(particle.Proton(geom.Vec3{X: 1}, geom.Vec3{Z: 1}))

	snap := Particles(ens)
	if len(snap) != 1 {
		t.Fatalf("expected 1 particle, got %d", len(snap))
	}

	snap[0].Position.X = 99
	if ens.At(0).Position().X == 99 {
		t.Fatal("mutating a snapshot must not affect the live ensemble")
	}
}

func TestParticlesSnapshotFields(t *testing.T) {
	ens := beam.New()
	p := particle.Proton(geom.Vec3{X: 1, Y: 2, Z: 3}, geom.Vec3{Z: 1e-15})
	ens.Add(p)

	snap := Particles(ens)[0]
	if snap.ID != p.ID() {
		t.Errorf("expected ID %d, got %d", p.ID(), snap.ID)
	}
	if snap.Charge != p.Charge() {
		t.Errorf("expected charge %g, got %g", p.Charge(), snap.Charge)
	}
	if !snap.Active {
		t.Error("expected freshly added particle to be active")
	}
}

func TestComponentsSnapshotIncludesTypeSpecificFields(t *testing.T) {
	lat := lattice.New()
	lat.AddComponent(lattice.NewDipole("B1", 2, 1.5, lattice.DefaultAperture()))
	lat.AddComponent(lattice.NewQuadrupole("Q1", 0.5, 20, lattice.DefaultAperture()))
	lat.AddComponent(lattice.NewRFCavity("RF1", 1.0, 1e6, 5e8, 0, lattice.DefaultAperture()))
	lat.ComputeLattice()

	comps := Components(lat)
	if len(comps) != 3 {
		t.Fatalf("expected 3 components, got %d", len(comps))
	}
	if comps[0].Field != 1.5 {
		t.Errorf("expected dipole field 1.5, got %g", comps[0].Field)
	}
	if comps[1].Gradient != 20 {
		t.Errorf("expected quadrupole gradient 20, got %g", comps[1].Gradient)
	}
	if comps[2].Voltage != 1e6 || comps[2].Frequency != 5e8 {
		t.Errorf("expected RF cavity voltage/frequency to be carried through, got %+v", comps[2])
	}
	if comps[1].SPosition != 2 {
		t.Errorf("expected quadrupole s-position 2 (after 2m dipole), got %g", comps[1].SPosition)
	}
}

func TestComponentsSnapshotEmptyLattice(t *testing.T) {
	lat := lattice.New()
	if got := Components(lat); len(got) != 0 {
		t.Errorf("expected no components, got %d", len(got))
	}
}
