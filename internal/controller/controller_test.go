package controller

import (
	"context"
	"testing"
	"time"

	"github.com/san-kum/accelsim/internal/beam"
	"github.com/san-kum/accelsim/internal/geom"
	"github.com/san-kum/accelsim/internal/lattice"
	"github.com/san-kum/accelsim/internal/particle"
	"github.com/san-kum/accelsim/internal/units"
)

func newTestController() (*Controller, *beam.Ensemble) {
	ens := beam.New()
	return New(ens), ens
}

func TestStateMachineTransitions(t *testing.T) {
	c, _ := newTestController()

	if c.State() != StateStopped {
		t.Fatalf("expected initial state Stopped, got %s", c.State())
	}

	c.Start()
	if c.State() != StateRunning {
		t.Fatalf("expected Running after Start, got %s", c.State())
	}

	c.Pause()
	if c.State() != StatePaused {
		t.Fatalf("expected Paused after Pause, got %s", c.State())
	}

	c.Resume()
	if c.State() != StateRunning {
		t.Fatalf("expected Running after Resume, got %s", c.State())
	}

	c.Stop()
	if c.State() != StateStopped {
		t.Fatalf("expected Stopped after Stop, got %s", c.State())
	}
}

func TestPauseIsNoOpWhenNotRunning(t *testing.T) {
	c, _ := newTestController()
	c.Pause()
	if c.State() != StateStopped {
		t.Errorf("expected Pause on a Stopped controller to be a no-op, got %s", c.State())
	}
}

func TestResumeIsNoOpWhenNotPaused(t *testing.T) {
	c, _ := newTestController()
	c.Start()
	c.Resume()
	if c.State() != StateRunning {
		t.Errorf("expected Resume on a Running controller to be a no-op, got %s", c.State())
	}
}

func TestUpdateOnlyStepsWhileRunning(t *testing.T) {
	c, _ := newTestController()
	c.SetTimeStep(1e-11)

	if err := c.Update(context.Background(), 1.0); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if c.Stats().StepCount != 0 {
		t.Error("expected no steps while Stopped")
	}
}

func TestUpdateAccumulatorPerformsFixedSubsteps(t *testing.T) {
	c, ens := newTestController()
	c.SetTimeStep(1e-11)
	c.SetTimeScale(1.0)
	c.Start()

	p := particle.Proton(geom.Vec3{}, geom.Vec3{})
	p.SetKineticEnergy(1*units.GeV, geom.Vec3{Z: 1})
	ens.Add(p)

	if err := c.Update(context.Background(), 5e-11); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if c.Stats().StepCount != 5 {
		t.Errorf("expected 5 fixed substeps for a 5x oversized wall tick, got %d", c.Stats().StepCount)
	}
}

func TestUpdateCapsSubstepsPerTickAndDiscardsExcess(t *testing.T) {
	c, ens := newTestController()
	c.SetTimeStep(1e-11)
	c.SetMaxStepsPerTick(3)
	c.Start()

	p := particle.Proton(geom.Vec3{}, geom.Vec3{})
	p.SetKineticEnergy(1*units.GeV, geom.Vec3{Z: 1})
	ens.Add(p)

	if err := c.Update(context.Background(), 100e-11); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if c.Stats().StepCount != 3 {
		t.Errorf("expected the cap of 3 substeps to bind, got %d", c.Stats().StepCount)
	}

	// A second, tiny tick should not immediately produce a huge burst
	// of catch-up steps: the excess accumulated time from the first
	// overloaded tick must have been discarded.
	if err := c.Update(context.Background(), 1e-13); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if c.Stats().StepCount != 3 {
		t.Errorf("expected no additional steps from a tiny follow-up tick, got %d", c.Stats().StepCount)
	}
}

func TestResetClearsEnsembleAndCounters(t *testing.T) {
	c, ens := newTestController()
	ens.Add(particle.Proton(geom.Vec3{}, geom.Vec3{}))
	c.Start()
	c.Step(context.Background())

	c.Reset()
	if c.Stats().StepCount != 0 {
		t.Error("expected StepCount reset to 0")
	}
	if ens.Count() != 0 {
		t.Error("expected Reset to clear the ensemble")
	}
}

func TestLossDetectionHardFallbackRadius(t *testing.T) {
	c, ens := newTestController()
	lat := lattice.New()
	lat.AddComponent(lattice.NewBeamPipe("D1", 10.0, lattice.Aperture{Shape: lattice.ApertureCircular, RadiusX: 0.02}))
	lat.ComputeLattice()
	c.SetAccelerator(lat)

	inside := particle.Proton(geom.Vec3{X: 0.01, Z: 1}, geom.Vec3{})
	farOutside := particle.Proton(geom.Vec3{X: 0.5, Z: 1}, geom.Vec3{})
	ens.Add(inside)
	ens.Add(farOutside)

	var lostIDs []uint64
	c.SetLossCallback(func(p *particle.Particle, _ float64) {
		lostIDs = append(lostIDs, p.ID())
	})

	c.checkParticleLosses()

	if !inside.Active() {
		t.Error("expected particle within the pipe aperture to remain active")
	}
	if farOutside.Active() {
		t.Error("expected particle beyond the hard fallback radius to be lost")
	}
	if len(lostIDs) != 1 || lostIDs[0] != farOutside.ID() {
		t.Errorf("expected loss callback to fire once for the lost particle, got %v", lostIDs)
	}
}

func TestLossDetectionSkipsWithoutComponents(t *testing.T) {
	c, ens := newTestController()
	p := particle.Proton(geom.Vec3{X: 5}, geom.Vec3{})
	ens.Add(p)

	c.checkParticleLosses()
	if !p.Active() {
		t.Error("expected loss detection to be a no-op when no lattice is bound")
	}
}

func TestLossDetectionRecordsDetectorHits(t *testing.T) {
	c, ens := newTestController()
	lat := lattice.New()
	det := lattice.NewDetector("BPM1", lattice.DefaultAperture())
	lat.AddComponent(det)
	lat.ComputeLattice()
	c.SetAccelerator(lat)

	p := particle.Proton(geom.Vec3{X: 0.001, Z: 0.0005}, geom.Vec3{})
	ens.Add(p)

	c.checkParticleLosses()

	hits := c.DetectorHits()
	if len(hits) != 1 {
		t.Fatalf("expected 1 recorded hit, got %d", len(hits))
	}
	if hits[0].ParticleID != p.ID() {
		t.Errorf("expected hit for particle %d, got %d", p.ID(), hits[0].ParticleID)
	}
	if !p.Active() {
		t.Error("a detector must not itself mark a particle lost")
	}
}

func TestStatsReportsStepsPerSecondAfterAWallSecond(t *testing.T) {
	c, ens := newTestController()
	c.SetTimeStep(1e-11)
	ens.Add(particle.Proton(geom.Vec3{}, geom.Vec3{}))
	c.Start()

	c.stepsThisSecond = 1234
	c.wallSecondStart = time.Now().Add(-2 * time.Second)

	if err := c.Step(context.Background()); err != nil {
		t.Fatalf("Step returned error: %v", err)
	}

	if got := c.Stats().StepsPerSecond; got <= 0 {
		t.Errorf("expected a positive steps/sec after a full wall-second, got %g", got)
	}
}
