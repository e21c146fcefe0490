package particle

import (
	"math"
	"testing"

	"github.com/san-kum/accelsim/internal/geom"
	"github.com/san-kum/accelsim/internal/units"
)

func TestProtonFactoryMassAndCharge(t *testing.T) {
	p := Proton(geom.Vec3{}, geom.Vec3{})
	if p.Mass() != units.ProtonMass {
		t.Errorf("expected proton mass %g, got %g", units.ProtonMass, p.Mass())
	}
	if p.Charge() != units.ElementaryCharge {
		t.Errorf("expected proton charge %g, got %g", units.ElementaryCharge, p.Charge())
	}
	if !p.Active() {
		t.Error("expected new particle to be active")
	}
}

func TestParticleIDsAreUnique(t *testing.T) {
	a := Electron(geom.Vec3{}, geom.Vec3{})
	b := Electron(geom.Vec3{}, geom.Vec3{})
	if a.ID() == b.ID() {
		t.Errorf("expected distinct ids, got %d and %d", a.ID(), b.ID())
	}
}

// S1 — LHC proton: K = 7 TeV should give gamma in [7450, 7475] and
// beta very close to but below 1.
func TestLHCProtonEnergy(t *testing.T) {
	p := Proton(geom.Vec3{}, geom.Vec3{})
	p.SetKineticEnergy(7*units.TeV, geom.Vec3{Z: 1})

	if p.Gamma() < 7450 || p.Gamma() > 7475 {
		t.Errorf("expected gamma in [7450, 7475], got %g", p.Gamma())
	}
	if !(p.Beta() > 0.999999 && p.Beta() < 1) {
		t.Errorf("expected beta in (0.999999, 1), got %g", p.Beta())
	}
}

// Property: subluminality — after any mutator, |v| < c and gamma >= 1.
func TestSubluminalityAfterVelocityClamp(t *testing.T) {
	p := Proton(geom.Vec3{}, geom.Vec3{})
	p.SetVelocity(geom.Vec3{X: 2 * units.C})

	if p.Speed() >= units.C {
		t.Errorf("expected clamped speed < c, got %g", p.Speed())
	}
	if p.Gamma() < 1 {
		t.Errorf("expected gamma >= 1, got %g", p.Gamma())
	}
}

// Property: energy-momentum identity E^2 = (pc)^2 + (mc^2)^2.
func TestEnergyMomentumIdentity(t *testing.T) {
	p := Proton(geom.Vec3{}, geom.Vec3{})
	p.SetKineticEnergy(10*units.GeV, geom.Vec3{Z: 1})

	e := p.TotalEnergy()
	pc := p.MomentumMagnitude() * units.C
	mc2 := p.RestEnergy()

	lhs := e * e
	rhs := pc*pc + mc2*mc2

	if math.Abs(lhs-rhs) > 1e-20*math.Max(1, lhs) {
		t.Errorf("energy-momentum identity violated: E^2=%g, (pc)^2+(mc^2)^2=%g", lhs, rhs)
	}
}

// Property: setting K then reading it back round-trips to relative 1e-10.
func TestKineticEnergyRoundTrip(t *testing.T) {
	p := Proton(geom.Vec3{}, geom.Vec3{})
	want := 2.5 * units.GeV
	p.SetKineticEnergy(want, geom.Vec3{Z: 1})

	got := p.KineticEnergy()
	if math.Abs(got-want)/want > 1e-10 {
		t.Errorf("expected kinetic energy round-trip within 1e-10, got relative error %g", math.Abs(got-want)/want)
	}
}

func TestSetKineticEnergyReusesMomentumDirectionWhenUnspecified(t *testing.T) {
	p := Proton(geom.Vec3{}, geom.Vec3{X: 1})
	p.SetKineticEnergy(1*units.MeV, geom.Vec3{})

	dir := p.Momentum().Normalize()
	if math.Abs(dir.X-1) > 1e-9 {
		t.Errorf("expected momentum direction to remain +x, got %+v", dir)
	}
}

func TestSetKineticEnergyFallsBackToPlusZWhenNoMomentum(t *testing.T) {
	p := Proton(geom.Vec3{}, geom.Vec3{})
	p.SetKineticEnergy(1*units.MeV, geom.Vec3{})

	dir := p.Momentum().Normalize()
	if math.Abs(dir.Z-1) > 1e-9 {
		t.Errorf("expected fallback direction +z, got %+v", dir)
	}
}

func TestDelta(t *testing.T) {
	p := Proton(geom.Vec3{}, geom.Vec3{Z: 110})
	d := p.Delta(100)
	if math.Abs(d-0.1) > 1e-12 {
		t.Errorf("expected delta 0.1, got %g", d)
	}
}
