package ir

import (
	"errors"
	"math"
)

// Errors returned by impulse response analysis.
var (
	ErrEmptyResponse     = errors.New("ir: impulse response is empty")
	ErrInvalidSampleRate = errors.New("ir: sample rate must be positive")
	ErrNilProcessor      = errors.New("ir: processor is nil")
	ErrInvalidLength     = errors.New("ir: length must be positive")
	ErrNoDecay           = errors.New("ir: insufficient decay for time estimation")
)

// StereoProcessor is any stereo per-sample processor whose tail is worth
// analyzing.
type StereoProcessor interface {
	ProcessStereoSample(l, r float64) (float64, float64)
}

// CaptureStereo feeds a unit impulse into both channels of p and records n
// samples of each output channel. The processor is assumed to start from
// cleared state; the caller resets it.
func CaptureStereo(p StereoProcessor, n int) (left, right []float64, err error) {
	if p == nil {
		return nil, nil, ErrNilProcessor
	}
	if n <= 0 {
		return nil, nil, ErrInvalidLength
	}

	left = make([]float64, n)
	right = make([]float64, n)
	left[0], right[0] = p.ProcessStereoSample(1, 1)
	for i := 1; i < n; i++ {
		left[i], right[i] = p.ProcessStereoSample(0, 0)
	}

	return left, right, nil
}

// DecayTimes holds reverberation time estimates derived from the decay
// curve, all in seconds. EDT fits the 0 to -10 dB range, T20 the -5 to -25
// range, T30 the -5 to -35 range; every fit is extrapolated to -60 dB. RT60
// is T30 when the curve reaches deep enough, T20 otherwise.
type DecayTimes struct {
	EDT  float64
	T20  float64
	T30  float64
	RT60 float64
}

// Analyzer estimates decay behavior of captured impulse responses.
type Analyzer struct {
	sampleRate float64

	// DecayFloorDB is the value assigned to curve points whose remaining
	// energy underflows. Defaults to -200.
	DecayFloorDB float64
}

// NewAnalyzer creates an analyzer for responses captured at sampleRate Hz.
func NewAnalyzer(sampleRate float64) (*Analyzer, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, ErrInvalidSampleRate
	}

	return &Analyzer{sampleRate: sampleRate, DecayFloorDB: -200}, nil
}

// SampleRate returns the analyzer's sample rate in Hz.
func (a *Analyzer) SampleRate() float64 { return a.sampleRate }

// DecayCurve computes the Schroeder backward integration of the squared
// response, normalized to the total energy and expressed in dB. The curve
// starts at 0 dB and falls monotonically, which makes it the standard basis
// for reverberation time fits over the raw, noisy energy envelope.
func (a *Analyzer) DecayCurve(response []float64) ([]float64, error) {
	if len(response) == 0 {
		return nil, ErrEmptyResponse
	}

	curve := make([]float64, len(response))

	remaining := 0.0
	for i := len(response) - 1; i >= 0; i-- {
		remaining += response[i] * response[i]
		curve[i] = remaining
	}

	total := curve[0]
	if total <= 0 {
		return nil, ErrNoDecay
	}

	for i, energy := range curve {
		ratio := energy / total
		if ratio <= 0 {
			curve[i] = a.DecayFloorDB
			continue
		}
		curve[i] = 10 * math.Log10(ratio)
	}

	return curve, nil
}

// DecayTimes fits EDT, T20 and T30 on the decay curve of response, starting
// at its energy onset.
func (a *Analyzer) DecayTimes(response []float64) (DecayTimes, error) {
	onset := a.Onset(response)
	if onset >= len(response) {
		return DecayTimes{}, ErrEmptyResponse
	}

	curve, err := a.DecayCurve(response[onset:])
	if err != nil {
		return DecayTimes{}, err
	}

	times := DecayTimes{
		EDT: a.fitDecay(curve, 0, -10),
		T20: a.fitDecay(curve, -5, -25),
		T30: a.fitDecay(curve, -5, -35),
	}

	switch {
	case times.T30 > 0:
		times.RT60 = times.T30
	case times.T20 > 0:
		times.RT60 = times.T20
	default:
		return times, ErrNoDecay
	}

	return times, nil
}

// RT60 is a convenience wrapper returning only the reverberation time.
func (a *Analyzer) RT60(response []float64) (float64, error) {
	times, err := a.DecayTimes(response)
	if err != nil {
		return 0, err
	}

	return times.RT60, nil
}

// Onset returns the index of the first sample whose magnitude reaches a
// tenth of the response peak. Pre-delay silence before that point would
// otherwise bias the decay fits long.
func (a *Analyzer) Onset(response []float64) int {
	peak := 0.0
	for _, v := range response {
		if abs := math.Abs(v); abs > peak {
			peak = abs
		}
	}
	if peak == 0 {
		return len(response)
	}

	threshold := peak / 10
	for i, v := range response {
		if math.Abs(v) >= threshold {
			return i
		}
	}

	return len(response)
}

// fitDecay regresses curve values in [startDB, endDB] against time and
// extrapolates the slope to -60 dB. Returns 0 when the curve never reaches
// the fit range or does not fall across it.
func (a *Analyzer) fitDecay(curve []float64, startDB, endDB float64) float64 {
	start, end := -1, -1
	for i, v := range curve {
		if start < 0 && v <= startDB {
			start = i
		}
		if start >= 0 && v <= endDB {
			end = i
			break
		}
	}
	if start < 0 || end <= start {
		return 0
	}

	var sumT, sumDB, sumTT, sumTDB float64
	for i := start; i <= end; i++ {
		t := float64(i-start) / a.sampleRate
		db := curve[i]
		sumT += t
		sumDB += db
		sumTT += t * t
		sumTDB += t * db
	}

	n := float64(end - start + 1)
	denom := n*sumTT - sumT*sumT
	if denom == 0 {
		return 0
	}

	// Slope in dB per second; only a falling fit yields a valid time.
	slope := (n*sumTDB - sumT*sumDB) / denom
	if slope >= 0 {
		return 0
	}

	return -60 / slope
}
