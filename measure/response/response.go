package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by response capture functions.
var (
	ErrNilProcessor  = errors.New("response: processor is nil")
	ErrInvalidLength = errors.New("response: length must be positive")
	ErrEmptyInput    = errors.New("response: input is empty")
)

// Processor is any per-sample signal processor whose frequency response is
// worth measuring.
type Processor interface {
	ProcessSample(input float64) float64
}

// Impulse captures n samples of p's response to a unit impulse. The
// processor is assumed to start from cleared state; the caller resets it.
func Impulse(p Processor, n int) ([]float64, error) {
	if p == nil {
		return nil, ErrNilProcessor
	}
	if n <= 0 {
		return nil, ErrInvalidLength
	}

	out := make([]float64, n)
	out[0] = p.ProcessSample(1)
	for i := 1; i < n; i++ {
		out[i] = p.ProcessSample(0)
	}

	return out, nil
}

// Curve is a single-sided magnitude response over linearly spaced bins from
// DC up to Nyquist.
type Curve struct {
	sampleRate float64
	fftSize    int

	// Magnitudes holds |H(f)| for bins 0..fftSize/2 inclusive.
	Magnitudes []float64
}

// Magnitude computes the single-sided magnitude response of an impulse
// response. The FFT size is the next power of two at or above
// max(len(ir), minFFTSize); the input is zero-padded up to it.
func Magnitude(ir []float64, sampleRate float64, minFFTSize int) (*Curve, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyInput
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("response: sample rate must be > 0: %f", sampleRate)
	}

	n := len(ir)
	if minFFTSize > n {
		n = minFFTSize
	}
	fftSize := nextPowerOf2(n)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, fftSize)
	for i, v := range ir {
		padded[i] = complex(v, 0)
	}

	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, padded); err != nil {
		return nil, fmt.Errorf("response: forward FFT failed: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := 0; i < bins; i++ {
		re[i] = real(freq[i])
		im[i] = imag(freq[i])
	}

	c := &Curve{
		sampleRate: sampleRate,
		fftSize:    fftSize,
		Magnitudes: make([]float64, bins),
	}
	vecmath.Magnitude(c.Magnitudes, re, im)

	return c, nil
}

// Bins returns the number of frequency bins, DC through Nyquist.
func (c *Curve) Bins() int { return len(c.Magnitudes) }

// BinHz returns the center frequency of bin i.
func (c *Curve) BinHz(i int) float64 {
	return float64(i) * c.sampleRate / float64(c.fftSize)
}

// At returns the magnitude at freqHz, linearly interpolated between the two
// neighboring bins. Frequencies outside [0, Nyquist] clamp to the edges.
func (c *Curve) At(freqHz float64) float64 {
	pos := freqHz * float64(c.fftSize) / c.sampleRate
	if pos <= 0 {
		return c.Magnitudes[0]
	}
	last := len(c.Magnitudes) - 1
	if pos >= float64(last) {
		return c.Magnitudes[last]
	}

	lo := int(pos)
	frac := pos - float64(lo)

	return c.Magnitudes[lo]*(1-frac) + c.Magnitudes[lo+1]*frac
}

// PeakMagnitude returns the largest magnitude across all bins.
func (c *Curve) PeakMagnitude() float64 {
	return vecmath.MaxAbs(c.Magnitudes)
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size *= 2
	}

	return size
}
