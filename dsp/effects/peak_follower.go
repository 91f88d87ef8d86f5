package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
)

// PeakFollower tracks the peak envelope of a signal for metering. The raw
// absolute input runs through a short moving average; a new maximum resets
// the hold timer, and once the hold expires the tracked peak falls linearly
// at the release rate, in units per second.
type PeakFollower struct {
	release     float64
	hold        float64
	sampleRate  float64
	peak        float64
	holdCounter float64

	smoother []float64
	smoothAt int
	smoothed float64
}

// NewPeakFollower creates a follower. Release is the linear fall rate per
// second, hold the time in seconds a peak is kept before falling, smoothing
// the moving-average length in samples.
func NewPeakFollower(release, hold, sampleRate float64, smoothing int) (*PeakFollower, error) {
	if release < 0 || math.IsNaN(release) || math.IsInf(release, 0) {
		return nil, fmt.Errorf("peak follower release must be >= 0: %f", release)
	}
	if hold < 0 || math.IsNaN(hold) || math.IsInf(hold, 0) {
		return nil, fmt.Errorf("peak follower hold must be >= 0 seconds: %f", hold)
	}
	if !core.ValidSampleRate(sampleRate) {
		return nil, fmt.Errorf("peak follower sample rate must be > 0: %f", sampleRate)
	}
	if smoothing < 1 {
		return nil, fmt.Errorf("peak follower smoothing must be >= 1 samples: %d", smoothing)
	}

	return &PeakFollower{
		release:    release,
		hold:       hold,
		sampleRate: sampleRate,
		smoother:   make([]float64, smoothing),
	}, nil
}

// ProcessSample consumes one sample and returns the current envelope value.
func (p *PeakFollower) ProcessSample(input float64) float64 {
	smoothed := p.smooth(math.Abs(input))

	if smoothed > p.peak {
		p.peak = smoothed
		p.holdCounter = p.hold
	} else {
		p.holdCounter -= 1 / p.sampleRate
		if p.holdCounter < 0 {
			p.peak -= p.release / p.sampleRate
			if p.peak < 0 {
				p.peak = 0
			}
		}
	}

	return p.peak
}

// smooth is a running mean over the last len(smoother) absolute samples.
func (p *PeakFollower) smooth(input float64) float64 {
	n := float64(len(p.smoother))

	p.smoothed += (input - p.smoother[p.smoothAt]) / n
	p.smoother[p.smoothAt] = input
	p.smoothAt++
	if p.smoothAt >= len(p.smoother) {
		p.smoothAt = 0
	}

	return p.smoothed
}

// Peak returns the current envelope value without consuming a sample.
func (p *PeakFollower) Peak() float64 { return p.peak }

// PeakDB returns the current envelope in dB full scale. A silent envelope
// reads as -Inf.
func (p *PeakFollower) PeakDB() float64 { return core.LinearToDB(p.peak) }

// SetSampleRate updates the rate used by the hold and release timing.
func (p *PeakFollower) SetSampleRate(sampleRate float64) error {
	if !core.ValidSampleRate(sampleRate) {
		return fmt.Errorf("peak follower sample rate must be > 0: %f", sampleRate)
	}

	p.sampleRate = sampleRate

	return nil
}

// Reset clears the envelope, the hold timer, and the smoothing history.
func (p *PeakFollower) Reset() {
	p.peak = 0
	p.holdCounter = 0
	p.smoothed = 0
	p.smoothAt = 0
	for i := range p.smoother {
		p.smoother[i] = 0
	}
}
