// Package controller drives a beam through a lattice over wall-clock
// time: a Stopped/Running/Paused state machine, a fixed-timestep
// accumulator loop with a per-tick substep cap, and aperture-based
// loss detection with a hard fallback radius.
package controller

import (
	"context"
	"math"
	"time"

	"github.com/go-logr/logr"

	"github.com/san-kum/accelsim/internal/applog"
	"github.com/san-kum/accelsim/internal/beam"
	"github.com/san-kum/accelsim/internal/field"
	"github.com/san-kum/accelsim/internal/geom"
	"github.com/san-kum/accelsim/internal/integrators"
	"github.com/san-kum/accelsim/internal/lattice"
	"github.com/san-kum/accelsim/internal/particle"
)

// State names the controller's run state.
type State string

const (
	StateStopped State = "Stopped"
	StateRunning State = "Running"
	StatePaused  State = "Paused"
)

// hardFallbackRadius is the aperture-agnostic loss radius applied
// when a particle sits outside every component's local aperture: a
// particle further than this from the beam axis is considered lost
// even if the lattice has no components at its current position.
const hardFallbackRadius = 0.10 // meters

// LossCallback is invoked once per particle the moment it is marked
// lost, with the particle and the simulation time of the loss.
type LossCallback func(p *particle.Particle, time float64)

// Stats is a point-in-time snapshot of the controller's progress.
type Stats struct {
	SimulationTime    float64
	StepCount         uint64
	ParticleCount     int
	LostParticleCount int
	AverageEnergy     float64
	EnergySpread      float64
	StepsPerSecond    float64
}

// Controller orchestrates one Ensemble against one Lattice: it owns
// the field manager built from the lattice, the chosen integrator,
// and the fixed-timestep loop that advances both together.
type Controller struct {
	log logr.Logger

	ensemble *beam.Ensemble
	lat      *lattice.Lattice
	mgr      *field.Manager
	integ    integrators.Integrator

	state State

	timeStep         float64
	timeScale        float64
	maxStepsPerTick  int
	hardFallback     float64
	accumulatedTime  float64
	currentTime      float64

	stepCount     uint64
	lostCount     int
	lossCallback  LossCallback

	stepsThisSecond  int
	stepsPerSecond   float64
	wallSecondStart  time.Time
}

// New returns a stopped controller with the reference implementation's
// defaults: a 10ps timestep, real-time scale, 10000 substeps per
// tick, and the Boris integrator.
func New(ensemble *beam.Ensemble) *Controller {
	return &Controller{
		log:             applog.Default(),
		ensemble:        ensemble,
		mgr:             field.NewManager(),
		integ:           integrators.NewBoris(),
		state:           StateStopped,
		timeStep:        1e-11,
		timeScale:       1.0,
		maxStepsPerTick: 10000,
		hardFallback:    hardFallbackRadius,
	}
}

// SetLogger overrides the default stderr logger.
func (c *Controller) SetLogger(log logr.Logger) { c.log = log }

// SetAccelerator rebinds the controller to a new lattice, clearing
// and repopulating the field manager from it.
func (c *Controller) SetAccelerator(lat *lattice.Lattice) {
	c.lat = lat
	c.mgr.Clear()
	if lat != nil {
		lat.PopulateFieldManager(c.mgr)
		c.log.V(1).Info("accelerator set", "components", lat.ComponentCount())
	}
}

// Lattice returns the currently bound lattice, or nil.
func (c *Controller) Lattice() *lattice.Lattice { return c.lat }

// SetIntegrator swaps the stepping scheme.
func (c *Controller) SetIntegrator(i integrators.Integrator) { c.integ = i }

// SetTimeStep sets the fixed integration timestep in seconds.
func (c *Controller) SetTimeStep(dt float64) { c.timeStep = dt }

// TimeStep returns the fixed integration timestep in seconds.
func (c *Controller) TimeStep() float64 { return c.timeStep }

// SetTimeScale sets the wall-clock-to-simulation-time multiplier,
// clamped to non-negative.
func (c *Controller) SetTimeScale(scale float64) { c.timeScale = math.Max(0, scale) }

// TimeScale returns the current wall-clock multiplier.
func (c *Controller) TimeScale() float64 { return c.timeScale }

// SetMaxStepsPerTick bounds how many fixed substeps a single Update
// call may perform, the mitigation for the accumulator's classic
// spiral of death under a slow tick.
func (c *Controller) SetMaxStepsPerTick(n int) { c.maxStepsPerTick = n }

// SetHardFallbackRadius overrides the loss radius applied outside
// every component aperture (default 0.10m).
func (c *Controller) SetHardFallbackRadius(r float64) { c.hardFallback = r }

// SetLossCallback registers a callback fired once per newly lost
// particle.
func (c *Controller) SetLossCallback(cb LossCallback) { c.lossCallback = cb }

// State returns the current run state.
func (c *Controller) State() State { return c.state }

// IsRunning reports whether the controller is actively stepping.
func (c *Controller) IsRunning() bool { return c.state == StateRunning }

// IsPaused reports whether the controller is paused.
func (c *Controller) IsPaused() bool { return c.state == StatePaused }

// Start transitions Stopped -> Running, resetting first if the
// controller was stopped. A controller already Running or Paused
// resumes running without resetting.
func (c *Controller) Start() {
	if c.state == StateStopped {
		c.Reset()
	}
	c.state = StateRunning
	c.log.Info("simulation started")
}

// Stop transitions to Stopped from any state.
func (c *Controller) Stop() {
	c.state = StateStopped
	c.log.Info("simulation stopped", "simulationTime", c.currentTime, "steps", c.stepCount)
}

// Pause transitions Running -> Paused; a no-op otherwise.
func (c *Controller) Pause() {
	if c.state == StateRunning {
		c.state = StatePaused
		c.log.Info("simulation paused")
	}
}

// Resume transitions Paused -> Running; a no-op otherwise.
func (c *Controller) Resume() {
	if c.state == StatePaused {
		c.state = StateRunning
		c.log.Info("simulation resumed")
	}
}

// Reset clears accumulated time, step counters, and the ensemble.
func (c *Controller) Reset() {
	c.accumulatedTime = 0
	c.currentTime = 0
	c.stepCount = 0
	c.lostCount = 0
	c.stepsThisSecond = 0
	c.stepsPerSecond = 0
	c.wallSecondStart = time.Time{}
	c.ensemble.Clear()
	c.log.Info("simulation reset")
}

// Update advances the accumulator by wallDt*TimeScale of simulation
// time and performs as many fixed timesteps as fit, capped at
// MaxStepsPerTick. Excess accumulated time beyond the cap is
// discarded rather than carried forward, preventing an ever-growing
// backlog under sustained overload.
func (c *Controller) Update(ctx context.Context, wallDt float64) error {
	if c.state != StateRunning {
		return nil
	}

	c.accumulatedTime += wallDt * c.timeScale

	stepsThisTick := 0
	for c.accumulatedTime >= c.timeStep && stepsThisTick < c.maxStepsPerTick {
		if err := c.Step(ctx); err != nil {
			return err
		}
		c.accumulatedTime -= c.timeStep
		stepsThisTick++
	}

	if stepsThisTick >= c.maxStepsPerTick && c.accumulatedTime > c.timeStep {
		c.accumulatedTime = 0
	}

	return nil
}

// Step performs exactly one fixed-timestep integration pass over the
// ensemble, followed by loss detection.
func (c *Controller) Step(ctx context.Context) error {
	if err := c.ensemble.StepAll(ctx, c.integ, c.mgr, c.currentTime, c.timeStep); err != nil {
		return err
	}

	c.checkParticleLosses()

	c.currentTime += c.timeStep
	c.stepCount++
	c.updateStats()
	return nil
}

// updateStats maintains the steps/sec figure reported by Stats: it
// counts steps since wallSecondStart and, once a full wall-clock
// second has elapsed, latches that count as stepsPerSecond and starts
// counting the next second.
func (c *Controller) updateStats() {
	now := time.Now()
	if c.wallSecondStart.IsZero() {
		c.wallSecondStart = now
	}

	c.stepsThisSecond++
	if elapsed := now.Sub(c.wallSecondStart); elapsed >= time.Second {
		c.stepsPerSecond = float64(c.stepsThisSecond) / elapsed.Seconds()
		c.stepsThisSecond = 0
		c.wallSecondStart = now
	}
}

// checkParticleLosses marks any active particle outside every
// component's aperture, and beyond the hard fallback radius, as lost.
// Along the way, any active particle found inside a Detector
// component's aperture and z-window is recorded as a hit on that
// detector.
func (c *Controller) checkParticleLosses() {
	if c.lat == nil || c.lat.ComponentCount() == 0 {
		return
	}

	components := c.lat.Components()
	for _, p := range c.ensemble.Particles() {
		if !p.Active() {
			continue
		}

		pos := p.Position()
		insideAperture := false
		for _, comp := range components {
			if !comp.InsideAperture(pos) {
				continue
			}
			insideAperture = true
			if det, ok := comp.(*lattice.Detector); ok {
				det.RecordHit(c.currentTime, pos, p.Momentum(), p.ID())
			}
		}
		if insideAperture {
			continue
		}

		radial := geom.Vec3{X: pos.X, Y: pos.Y}.Length()
		if radial > c.hardFallback {
			p.SetActive(false)
			c.lostCount++
			if c.lossCallback != nil {
				c.lossCallback(p, c.currentTime)
			}
		}
	}
}

// DetectorHits returns every hit recorded on every Detector in the
// bound lattice, in detector order, oldest hit first within each.
func (c *Controller) DetectorHits() []lattice.Hit {
	if c.lat == nil {
		return nil
	}
	var hits []lattice.Hit
	for _, d := range c.lat.Detectors() {
		hits = append(hits, d.Hits()...)
	}
	return hits
}

// Stats returns a snapshot of the controller's current progress.
func (c *Controller) Stats() Stats {
	beamStats := c.ensemble.Compute()
	return Stats{
		SimulationTime:    c.currentTime,
		StepCount:         c.stepCount,
		ParticleCount:     c.ensemble.ActiveCount(),
		LostParticleCount: c.lostCount,
		AverageEnergy:     beamStats.MeanEnergy,
		EnergySpread:      beamStats.RMSEnergy,
		StepsPerSecond:    c.stepsPerSecond,
	}
}
