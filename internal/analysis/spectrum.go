package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the one-sided magnitude spectrum of a series after
// removing its mean and applying a Hann window. Bin k corresponds to a
// period of len(series)/k samples. Any length is accepted.
func PowerSpectrum(series []float64) []float64 {
	n := len(series)
	if n < 2 {
		return nil
	}

	mean := stat.Mean(series, nil)
	buf := make([]float64, n)
	for i, v := range series {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		buf[i] = (v - mean) * window
	}

	coeffs := fft.FFTReal(buf)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// DominantPeriod returns the period, in samples, of the strongest non-zero
// frequency. It returns 0 when the series has no oscillation.
func DominantPeriod(series []float64) float64 {
	ps := PowerSpectrum(series)
	best, peak := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > peak {
			best, peak = k, ps[k]
		}
	}
	if best == 0 {
		return 0
	}
	return float64(len(series)) / float64(best)
}

// SuggestTau proposes an embedding delay of a quarter of the dominant
// period, the usual rule of thumb for oscillating signals. The result is at
// least 1.
func SuggestTau(series []float64) int {
	return max(int(math.Round(DominantPeriod(series)/4)), 1)
}
