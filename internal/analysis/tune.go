package analysis

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// BetatronTune extracts the fractional betatron tune from a
// turn-by-turn position record: it takes the real FFT of the
// (mean-subtracted) signal and reports the frequency, as a fraction
// of the revolution frequency, carrying the largest spectral power in
// (0, 0.5]. Fewer than 4 samples returns 0.
func BetatronTune(turnByTurn []float64) float64 {
	n := len(turnByTurn)
	if n < 4 {
		return 0
	}

	mean := 0.0
	for _, v := range turnByTurn {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range turnByTurn {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)

	peakBin := 1
	peakPower := 0.0
	for k := 1; k <= n/2; k++ {
		power := math.Hypot(real(spectrum[k]), imag(spectrum[k]))
		if power > peakPower {
			peakPower = power
			peakBin = k
		}
	}

	return float64(peakBin) / float64(n)
}

// PowerSpectrum returns the one-sided magnitude spectrum of data.
func PowerSpectrum(data []float64) []float64 {
	spectrum := fft.FFTReal(data)
	n := len(spectrum) / 2
	ps := make([]float64, n)
	for i := 0; i < n; i++ {
		ps[i] = math.Hypot(real(spectrum[i]), imag(spectrum[i]))
	}
	return ps
}
