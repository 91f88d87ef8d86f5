package reverb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
)

// Structural constants of the plate design. These are taken verbatim from
// the reference topology and must not be rescaled with the sample rate.
const (
	inputDiffusorDelay1 = 142
	inputDiffusorDelay2 = 107
	inputDiffusorDelay3 = 379
	inputDiffusorDelay4 = 277

	inputDiffusionGainA = 0.75
	inputDiffusionGainB = 0.625

	decayDiffusorDelayL = 672
	decayDiffusorDelayR = 908
	decayDiffusionGain  = 0.75

	lateDiffusorDelayL = 1800
	lateDiffusorDelayR = 2656
	lateDiffusionGain  = 0.625

	delayLen1L = 4453
	delayLen2L = 3720
	delayLen1R = 4217
	delayLen2R = 3163

	bandwidthDamping = 0.9995
	loopDamping      = 0.0005

	defaultGain = 1.0

	// maxDecay bounds the decay factor inside the tank's stable region.
	// The sequential accumulator update carries the previous tank state at
	// unit gain, so the loop crosses unity gain near 0.57 already; beyond
	// that the tail grows without bound instead of decaying.
	maxDecay = 0.55

	// Output tap offsets, in samples.
	tapOutR1A = 266
	tapOutR1B = 2974
	tapOutR2  = 1913
	tapOutR3  = 1996
	tapOutL1  = 1990
	tapOutL2  = 187
	tapOutL3  = 1066

	tapOutL1A = 353
	tapOutL1B = 3627
	tapOutL2R = 1228
	tapOutL3R = 2673
	tapOutR1  = 2111
	tapOutR2R = 335
	tapOutR3R = 121
)

// avgLoopSamples is the mean of the left (672+4453+3720) and right
// (908+4217+3163) tank loop lengths, used for decay/RT60 conversion.
const avgLoopSamples = 8566.5

// Dattorro is a stereo plate reverb network after Jon Dattorro's
// "Effect Design Part 1" figure-of-eight tank topology: a pre-delayed,
// band-limited mono sum runs through four series input diffusors into two
// cross-coupled feedback accumulators, each carrying a modulated decay
// diffusor, two long delay lines, a damper and a late diffusor. The wet
// output is a sign-alternating sum of taps picked across both channels.
//
// A sample-rate change rebuilds every internal line and erases the tail;
// callers must treat it as an audible discontinuity.
type Dattorro struct {
	sampleRate float64
	decay      float64
	gain       float64

	preDelaySamples int

	preDelay        *delayLine
	bandwidthDamper *damper

	inputDiffusor1 *inputDiffusor
	inputDiffusor2 *inputDiffusor
	inputDiffusor3 *inputDiffusor
	inputDiffusor4 *inputDiffusor

	decayDiffusorL *decayDiffusor
	decayDiffusorR *decayDiffusor
	lateDiffusorL  *inputDiffusor
	lateDiffusorR  *inputDiffusor
	damperL        *damper
	damperR        *damper

	delayLine1L *delayLine
	delayLine2L *delayLine
	delayLine1R *delayLine
	delayLine2R *delayLine

	tapL1 *delayLine
	tapL2 *delayLine
	tapL3 *delayLine
	tapR1 *delayLine
	tapR2 *delayLine
	tapR3 *delayLine

	recursiveL float64
	recursiveR float64
}

// Option mutates constructor configuration.
type Option func(*Dattorro) error

// WithGain sets the output gain factor applied to the wet pair.
func WithGain(gain float64) Option {
	return func(d *Dattorro) error {
		if gain < 0 || math.IsNaN(gain) || math.IsInf(gain, 0) {
			return fmt.Errorf("reverb: gain must be >= 0: %f", gain)
		}

		d.gain = gain

		return nil
	}
}

// WithPreDelaySamples sets the pre-delay tap in samples. The pre-delay line
// holds one sample rate's worth of audio; values wrap modulo that capacity.
func WithPreDelaySamples(samples int) Option {
	return func(d *Dattorro) error {
		if samples < 0 {
			return fmt.Errorf("reverb: pre-delay must be >= 0 samples: %d", samples)
		}

		d.preDelaySamples = samples

		return nil
	}
}

// NewDattorro creates the network for the given sample rate and decay
// factor. Decay is clamped into the tank's stable range; the accumulators
// must never diverge.
func NewDattorro(sampleRate, decay float64, opts ...Option) (*Dattorro, error) {
	if !core.ValidSampleRate(sampleRate) {
		return nil, fmt.Errorf("reverb: sample rate must be > 0: %f", sampleRate)
	}
	if int(sampleRate) < 1 {
		return nil, fmt.Errorf("reverb: sample rate too small: %f", sampleRate)
	}

	d := &Dattorro{gain: defaultGain}
	d.SetDecay(decay)

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	d.rebuild(sampleRate)

	return d, nil
}

// rebuild constructs every internal line for the given sample rate,
// discarding all history.
func (d *Dattorro) rebuild(sampleRate float64) {
	d.sampleRate = sampleRate

	d.preDelay = newDelayLine(int(sampleRate))
	d.preDelay.setDelay(d.preDelaySamples)
	d.bandwidthDamper = newDamper(bandwidthDamping)

	d.inputDiffusor1 = newInputDiffusor(inputDiffusorDelay1, inputDiffusionGainA)
	d.inputDiffusor2 = newInputDiffusor(inputDiffusorDelay2, inputDiffusionGainA)
	d.inputDiffusor3 = newInputDiffusor(inputDiffusorDelay3, inputDiffusionGainB)
	d.inputDiffusor4 = newInputDiffusor(inputDiffusorDelay4, inputDiffusionGainB)

	d.decayDiffusorL = newDecayDiffusor(sampleRate, decayDiffusorDelayL, decayDiffusionGain)
	d.decayDiffusorR = newDecayDiffusor(sampleRate, decayDiffusorDelayR, decayDiffusionGain)
	d.lateDiffusorL = newInputDiffusor(lateDiffusorDelayL, lateDiffusionGain)
	d.lateDiffusorR = newInputDiffusor(lateDiffusorDelayR, lateDiffusionGain)
	d.damperL = newDamper(loopDamping)
	d.damperR = newDamper(loopDamping)

	d.delayLine1L = newDelayLine(delayLen1L)
	d.delayLine2L = newDelayLine(delayLen2L)
	d.delayLine1R = newDelayLine(delayLen1R)
	d.delayLine2R = newDelayLine(delayLen2R)

	tapLen := int(sampleRate) / 4
	if tapLen < 1 {
		tapLen = 1
	}
	d.tapL1 = newDelayLine(tapLen)
	d.tapL2 = newDelayLine(tapLen)
	d.tapL3 = newDelayLine(tapLen)
	d.tapR1 = newDelayLine(tapLen)
	d.tapR2 = newDelayLine(tapLen)
	d.tapR3 = newDelayLine(tapLen)

	d.recursiveL = 0
	d.recursiveR = 0
}

// SetDecay updates the decay factor, clamped to [0, maxDecay]. Real-time
// audio must never fail mid-stream, so out-of-range values are clamped
// rather than rejected.
func (d *Dattorro) SetDecay(decay float64) {
	if math.IsNaN(decay) {
		decay = 0
	}

	d.decay = core.Clamp(decay, 0, maxDecay)
}

// Decay returns the decay factor in [0, maxDecay].
func (d *Dattorro) Decay() float64 { return d.decay }

// SampleRate returns the sample rate in Hz.
func (d *Dattorro) SampleRate() float64 { return d.sampleRate }

// SetSampleRate rebuilds every internal delay line for the new rate. All
// reverb tail history is discarded; this is an accepted discontinuity, not
// a bug to mask.
func (d *Dattorro) SetSampleRate(sampleRate float64) error {
	if !core.ValidSampleRate(sampleRate) || int(sampleRate) < 1 {
		return fmt.Errorf("reverb: sample rate must be > 0: %f", sampleRate)
	}

	d.rebuild(sampleRate)

	return nil
}

// SetRT60 derives a nominal decay factor from a target reverberation time
// in seconds, based on the mean tank loop length. Times whose decay factor
// falls beyond the stable range clamp to it.
func (d *Dattorro) SetRT60(seconds float64) error {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("reverb: rt60 must be > 0 seconds: %f", seconds)
	}

	loopSeconds := avgLoopSamples / d.sampleRate
	d.SetDecay(decayForRT60(loopSeconds, seconds))

	return nil
}

// RT60 returns the reverberation time implied by the current decay factor,
// or 0 when decay is 0.
func (d *Dattorro) RT60() float64 {
	if d.decay <= 0 {
		return 0
	}

	loopSeconds := avgLoopSamples / d.sampleRate

	return rt60ForDecay(loopSeconds, d.decay)
}

// ProcessStereoSample consumes one stereo pair and returns the wet pair.
// The dry signal is not mixed in; the network is a parallel processor.
func (d *Dattorro) ProcessStereoSample(l, r float64) (float64, float64) {
	input := (l + r) / 2

	signal := d.bandwidthDamper.process(d.preDelay.process(input))
	signal = d.inputDiffusor1.process(signal)
	signal = d.inputDiffusor2.process(signal)
	signal = d.inputDiffusor3.process(signal)
	signal = d.inputDiffusor4.process(signal)

	// Sequential cross-coupled update: the second line reads the
	// just-updated left accumulator.
	d.recursiveL += signal + d.recursiveR*d.decay
	d.recursiveR += signal + d.recursiveL*d.decay

	d.recursiveL = d.decayDiffusorL.process(d.recursiveL)
	d.recursiveR = d.decayDiffusorR.process(d.recursiveR)

	leftInitTap := d.recursiveL
	rightInitTap := d.recursiveR

	d.recursiveL = d.delayLine1L.process(d.recursiveL)
	d.recursiveR = d.delayLine1R.process(d.recursiveR)

	d.tapL1.insert(d.recursiveL)
	d.tapR1.insert(d.recursiveR)

	d.recursiveL = d.damperL.process(d.recursiveL) * d.decay
	d.recursiveR = d.damperR.process(d.recursiveR) * d.decay

	d.recursiveL = d.lateDiffusorL.process(d.recursiveL)
	d.recursiveR = d.lateDiffusorR.process(d.recursiveR)

	d.tapL2.insert(d.lateDiffusorL.tap())
	d.tapR2.insert(d.lateDiffusorR.tap())

	d.tapL3.insert(d.recursiveL)
	d.tapR3.insert(d.recursiveR)

	d.recursiveL = d.delayLine2L.process(d.recursiveL)
	d.recursiveR = d.delayLine2R.process(d.recursiveR)

	d.recursiveL = core.FlushDenormals(d.recursiveL)
	d.recursiveR = core.FlushDenormals(d.recursiveR)

	return d.output(leftInitTap, rightInitTap)
}

// output sums the cross-channel taps with alternating signs at the fixed
// reference offsets.
func (d *Dattorro) output(leftInit, rightInit float64) (float64, float64) {
	yL := leftInit +
		d.tapR1.getWithDelay(tapOutR1A) +
		d.tapR1.getWithDelay(tapOutR1B) -
		d.tapR2.getWithDelay(tapOutR2) +
		d.tapR3.getWithDelay(tapOutR3) -
		d.tapL1.getWithDelay(tapOutL1) -
		d.tapL2.getWithDelay(tapOutL2) -
		d.tapL3.getWithDelay(tapOutL3)

	yR := rightInit +
		d.tapL1.getWithDelay(tapOutL1A) +
		d.tapL1.getWithDelay(tapOutL1B) -
		d.tapL2.getWithDelay(tapOutL2R) +
		d.tapL3.getWithDelay(tapOutL3R) -
		d.tapR1.getWithDelay(tapOutR1) -
		d.tapR2.getWithDelay(tapOutR2R) -
		d.tapR3.getWithDelay(tapOutR3R)

	yL *= d.gain * 2
	yR *= d.gain * 2

	return yL, yR
}

// Reset clears all internal history without reallocating.
func (d *Dattorro) Reset() {
	d.preDelay.reset()
	d.bandwidthDamper.reset()

	d.inputDiffusor1.reset()
	d.inputDiffusor2.reset()
	d.inputDiffusor3.reset()
	d.inputDiffusor4.reset()

	d.decayDiffusorL.reset()
	d.decayDiffusorR.reset()
	d.lateDiffusorL.reset()
	d.lateDiffusorR.reset()
	d.damperL.reset()
	d.damperR.reset()

	d.delayLine1L.reset()
	d.delayLine2L.reset()
	d.delayLine1R.reset()
	d.delayLine2R.reset()

	d.tapL1.reset()
	d.tapL2.reset()
	d.tapL3.reset()
	d.tapR1.reset()
	d.tapR2.reset()
	d.tapR3.reset()

	d.recursiveL = 0
	d.recursiveR = 0
}
