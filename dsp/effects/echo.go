package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/delayengine"
	"github.com/cwbudde/algo-delay/dsp/filter/pipeline"
	"github.com/cwbudde/algo-delay/dsp/interp"
	"github.com/cwbudde/algo-vecmath"
)

// ChannelMode selects whether the right channel follows the left channel's
// delay and feedback settings or carries its own.
type ChannelMode int

const (
	// ChannelModeMono locks the right channel to the left channel's delay
	// time and feedback amount.
	ChannelModeMono ChannelMode = iota
	// ChannelModeStereo gives each channel independent delay and feedback.
	ChannelModeStereo
)

// String returns a human-readable channel mode name.
func (m ChannelMode) String() string {
	switch m {
	case ChannelModeMono:
		return "mono"
	case ChannelModeStereo:
		return "stereo"
	default:
		return "unknown"
	}
}

const (
	defaultEchoFeedback = 0.5
	defaultEchoMix      = 0.5

	// Hermite interpolation reads one sample ahead and two behind the tap,
	// so the largest usable delay stays this far below the capacity.
	echoTapGuard = 4

	minEchoCapacity = 8
)

// StereoEcho is a stereo feedback echo built on two delay engines. The host
// supplies pre-smoothed parameter values per sample or per block; setters
// validate and never smooth.
//
// Optional filters hook in at two points: a per-channel pre-filter shapes the
// input before it enters the loop, and a feedback pipeline shapes the
// recirculating signal each pass. Both accept shared filter instances.
type StereoEcho struct {
	sampleRate float64

	left  *delayengine.Engine
	right *delayengine.Engine

	delayMsL  float64
	delayMsR  float64
	feedbackL float64
	feedbackR float64
	mix       float64

	channelMode ChannelMode
	interpMode  interp.Mode

	preFilterL *pipeline.Shared
	preFilterR *pipeline.Shared
	feedback   *pipeline.Pipeline

	wetL []float64
	wetR []float64
}

// NewStereoEcho creates an echo whose delay lines hold capacity samples each.
// Both channels start at half the capacity with mono channel mode, matching
// feedback of 0.5 and an equal-power-free linear mix of 0.5.
func NewStereoEcho(capacity int, sampleRate float64) (*StereoEcho, error) {
	if capacity < minEchoCapacity {
		return nil, fmt.Errorf("echo capacity must be >= %d samples: %d", minEchoCapacity, capacity)
	}
	if !core.ValidSampleRate(sampleRate) {
		return nil, fmt.Errorf("echo sample rate must be > 0: %f", sampleRate)
	}

	left, err := delayengine.New(capacity, sampleRate)
	if err != nil {
		return nil, err
	}
	right, err := delayengine.New(capacity, sampleRate)
	if err != nil {
		return nil, err
	}

	e := &StereoEcho{
		sampleRate:  sampleRate,
		left:        left,
		right:       right,
		feedbackL:   defaultEchoFeedback,
		feedbackR:   defaultEchoFeedback,
		mix:         defaultEchoMix,
		channelMode: ChannelModeMono,
		interpMode:  interp.Linear,
	}

	defaultMs := float64(capacity/2) * 1000 / sampleRate
	if err := e.SetLeftDelayTimeMs(defaultMs); err != nil {
		return nil, err
	}
	if err := e.SetRightDelayTimeMs(defaultMs); err != nil {
		return nil, err
	}

	return e, nil
}

// maxDelayMs is the longest usable delay for the current rate and capacity.
func (e *StereoEcho) maxDelayMs() float64 {
	return float64(e.left.Len()-echoTapGuard) * 1000 / e.sampleRate
}

// SetLeftDelayTimeMs sets the left channel delay in milliseconds. In mono
// channel mode the right channel follows.
func (e *StereoEcho) SetLeftDelayTimeMs(ms float64) error {
	if err := e.validateDelayMs(ms); err != nil {
		return err
	}

	e.delayMsL = ms
	e.applyDelayTimes()

	return nil
}

// SetRightDelayTimeMs sets the right channel delay in milliseconds. The
// value is stored but only takes effect in stereo channel mode.
func (e *StereoEcho) SetRightDelayTimeMs(ms float64) error {
	if err := e.validateDelayMs(ms); err != nil {
		return err
	}

	e.delayMsR = ms
	e.applyDelayTimes()

	return nil
}

func (e *StereoEcho) validateDelayMs(ms float64) error {
	if ms < 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return fmt.Errorf("echo delay time must be >= 0 ms: %f", ms)
	}
	if max := e.maxDelayMs(); ms > max {
		return fmt.Errorf("echo delay time must be <= %f ms at %0.f Hz: %f", max, e.sampleRate, ms)
	}

	return nil
}

// applyDelayTimes pushes the stored delay times into the engines, honoring
// the channel mode. Engine validation cannot fail here: the values already
// passed validateDelayMs.
func (e *StereoEcho) applyDelayTimes() {
	_ = e.left.SetDelayTimeMs(e.delayMsL)

	rightMs := e.delayMsR
	if e.channelMode == ChannelModeMono {
		rightMs = e.delayMsL
	}
	_ = e.right.SetDelayTimeMs(rightMs)
}

// SetLeftFeedback sets the left channel feedback in [0, 1].
func (e *StereoEcho) SetLeftFeedback(feedback float64) error {
	if feedback < 0 || feedback > 1 || math.IsNaN(feedback) {
		return fmt.Errorf("echo feedback must be in [0, 1]: %f", feedback)
	}

	e.feedbackL = feedback

	return nil
}

// SetRightFeedback sets the right channel feedback in [0, 1]. Only effective
// in stereo channel mode.
func (e *StereoEcho) SetRightFeedback(feedback float64) error {
	if feedback < 0 || feedback > 1 || math.IsNaN(feedback) {
		return fmt.Errorf("echo feedback must be in [0, 1]: %f", feedback)
	}

	e.feedbackR = feedback

	return nil
}

// SetMix sets the wet amount in [0, 1].
func (e *StereoEcho) SetMix(mix float64) error {
	if mix < 0 || mix > 1 || math.IsNaN(mix) {
		return fmt.Errorf("echo mix must be in [0, 1]: %f", mix)
	}

	e.mix = mix

	return nil
}

// SetChannelMode switches between mono-locked and independent channels.
func (e *StereoEcho) SetChannelMode(mode ChannelMode) error {
	if mode != ChannelModeMono && mode != ChannelModeStereo {
		return fmt.Errorf("echo channel mode invalid: %d", mode)
	}

	e.channelMode = mode
	e.applyDelayTimes()

	return nil
}

// SetInterpolation selects the tap interpolation mode.
func (e *StereoEcho) SetInterpolation(mode interp.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("echo interpolation mode invalid: %d", mode)
	}

	e.interpMode = mode

	return nil
}

// SetPreFilter installs optional per-channel input filters. Either handle
// may be nil to leave that channel unfiltered.
func (e *StereoEcho) SetPreFilter(left, right *pipeline.Shared) {
	e.preFilterL = left
	e.preFilterR = right
}

// SetFeedbackPipeline installs an optional pipeline applied to the
// recirculating signal before it is written back. Pass nil to remove it.
func (e *StereoEcho) SetFeedbackPipeline(p *pipeline.Pipeline) {
	e.feedback = p
}

// SetSampleRate updates the rate. Delay times are expressed in milliseconds
// and keep their duration; the call fails if a stored delay no longer fits
// the line capacity at the new rate.
func (e *StereoEcho) SetSampleRate(sampleRate float64) error {
	if !core.ValidSampleRate(sampleRate) {
		return fmt.Errorf("echo sample rate must be > 0: %f", sampleRate)
	}

	maxMs := float64(e.left.Len()-echoTapGuard) * 1000 / sampleRate
	if e.delayMsL > maxMs || e.delayMsR > maxMs {
		return fmt.Errorf("echo delay times exceed capacity at %0.f Hz", sampleRate)
	}

	e.sampleRate = sampleRate
	if err := e.left.SetSampleRate(sampleRate); err != nil {
		return err
	}
	if err := e.right.SetSampleRate(sampleRate); err != nil {
		return err
	}
	e.applyDelayTimes()

	return nil
}

// Reset clears both delay lines. Installed filters keep their own state and
// must be reset by their owner.
func (e *StereoEcho) Reset() {
	e.left.Reset()
	e.right.Reset()
}

// ProcessSample consumes one stereo pair and returns the mixed output pair.
func (e *StereoEcho) ProcessSample(l, r float64) (float64, float64) {
	tapL, tapR := e.advance(l, r)

	outL := l*(1-e.mix) + tapL*e.mix
	outR := r*(1-e.mix) + tapR*e.mix

	return outL, outR
}

// advance runs the feedback loop for one sample pair and returns the wet
// taps read before the write.
func (e *StereoEcho) advance(l, r float64) (float64, float64) {
	inL, inR := l, r
	if e.preFilterL != nil {
		inL = e.preFilterL.ProcessSample(inL)
	}
	if e.preFilterR != nil {
		inR = e.preFilterR.ProcessSample(inR)
	}

	fbL, fbR := e.feedbackL, e.feedbackR
	if e.channelMode == ChannelModeMono {
		fbR = fbL
	}

	tapL := e.left.InterpolateSample(e.interpMode)
	tapR := e.right.InterpolateSample(e.interpMode)

	loopL := inL + tapL*fbL
	loopR := inR + tapR*fbR
	if e.feedback != nil {
		loopL, loopR = e.feedback.ProcessStereo(loopL, loopR)
	}

	e.left.WriteSample(core.FlushDenormals(loopL))
	e.right.WriteSample(core.FlushDenormals(loopR))

	return tapL, tapR
}

// ProcessInPlace processes matched stereo blocks in place. Only the first
// min(len(left), len(right)) samples are touched.
func (e *StereoEcho) ProcessInPlace(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	if n == 0 {
		return
	}

	if cap(e.wetL) < n {
		e.wetL = make([]float64, n)
		e.wetR = make([]float64, n)
	}
	wetL := e.wetL[:n]
	wetR := e.wetR[:n]

	for i := 0; i < n; i++ {
		wetL[i], wetR[i] = e.advance(left[i], right[i])
	}

	vecmath.ScaleBlockInPlace(left[:n], 1-e.mix)
	vecmath.ScaleBlockInPlace(wetL, e.mix)
	vecmath.AddBlockInPlace(left[:n], wetL)

	vecmath.ScaleBlockInPlace(right[:n], 1-e.mix)
	vecmath.ScaleBlockInPlace(wetR, e.mix)
	vecmath.AddBlockInPlace(right[:n], wetR)
}

// SampleRate returns the sample rate in Hz.
func (e *StereoEcho) SampleRate() float64 { return e.sampleRate }

// Mix returns the wet amount in [0, 1].
func (e *StereoEcho) Mix() float64 { return e.mix }

// Mode returns the channel mode.
func (e *StereoEcho) Mode() ChannelMode { return e.channelMode }
