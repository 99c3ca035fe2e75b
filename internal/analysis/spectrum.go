package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum holds FFT magnitudes of a metric history, one bin per
// frequency from zero up to but excluding Nyquist.
type Spectrum struct {
	Magnitudes []float64
	// N is the padded transform length.
	N int
}

// Analyze removes the mean from history, zero pads it to a power of two and
// keeps the magnitudes of the non-negative frequencies.
func Analyze(history []float64) Spectrum {
	if len(history) == 0 {
		return Spectrum{}
	}

	mean := 0.0
	for _, v := range history {
		mean += v
	}
	mean /= float64(len(history))

	n := 1
	for n < len(history) {
		n *= 2
	}
	padded := make([]float64, n)
	for i, v := range history {
		padded[i] = v - mean
	}

	out := fft.FFTReal(padded)
	mags := make([]float64, n/2)
	for i := range mags {
		mags[i] = cmplx.Abs(out[i])
	}
	return Spectrum{Magnitudes: mags, N: n}
}

// Peak returns the strongest bin above zero frequency. A flat or empty
// spectrum reports bin 0.
func (s Spectrum) Peak() (int, float64) {
	bin, peak := 0, 0.0
	for i := 1; i < len(s.Magnitudes); i++ {
		if s.Magnitudes[i] > peak {
			bin, peak = i, s.Magnitudes[i]
		}
	}
	return bin, peak
}

// Period converts bin into steps per cycle; bin 0 has no period.
func (s Spectrum) Period(bin int) float64 {
	if bin <= 0 || bin >= s.N {
		return 0
	}
	return float64(s.N) / float64(bin)
}
