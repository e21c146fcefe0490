// Package analysis provides turn-by-turn beam diagnostics: phase
// space portraits and Poincaré sections for visualizing single-particle
// motion, a Lyapunov exponent estimator for detecting chaotic
// (dynamic-aperture-limiting) motion in nonlinear lattices, and an
// FFT-based betatron tune extractor.
//
// # Chaos detection
//
// A positive largest Lyapunov exponent indicates that two particles
// starting arbitrarily close together diverge exponentially — a sign
// of resonant or chaotic transverse motion:
//
//	lambda := analysis.LyapunovExponent(integ, mgr, p0, dt, duration, 1e-9)
//	if lambda > 0 {
//	    // motion is chaotic near p0
//	}
//
// # Tune extraction
//
// BetatronTune takes a turn-by-turn position record and returns the
// fractional betatron tune, the dominant normalized frequency in the
// signal.
package analysis
