package svf

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
)

const (
	defaultCutoffHz  = 1000.0
	defaultResonance = 0.2

	minResonance    = 0.0
	maxResonance    = 1.0
	maxTanResonance = 0.98

	// maxCutoffRatio keeps the tangent prewarp away from its pole at Nyquist.
	maxCutoffRatio = 0.499

	// sinDampingScale is the conservative damping factor for the sine form.
	// With the plain 2*resonance a resonance of 1 destabilizes the
	// recurrence; at 1.45 it is still stable.
	sinDampingScale = 1.45
)

// Variant selects the coefficient derivation of the filter recurrence.
type Variant int

const (
	// VariantTan derives coefficients from tan(pi*fc/fs) following
	// Simper's linear trapezoidal optimized SVF.
	VariantTan Variant = iota
	// VariantSin derives coefficients from sin(w) and sin(2w), avoiding the
	// tangent's pole near Nyquist, following Simper's trapezoidal sine SVF.
	VariantSin
)

func (v Variant) String() string {
	switch v {
	case VariantTan:
		return "tan"
	case VariantSin:
		return "sin"
	default:
		return "unknown"
	}
}

// Mode selects which output of the shared recurrence ProcessSample returns.
type Mode int

const (
	ModeLow Mode = iota
	ModeBand
	ModeHigh
	ModeNotch
	ModePeak
	ModeAllpass
)

func (m Mode) String() string {
	switch m {
	case ModeLow:
		return "low"
	case ModeBand:
		return "band"
	case ModeHigh:
		return "high"
	case ModeNotch:
		return "notch"
	case ModePeak:
		return "peak"
	case ModeAllpass:
		return "allpass"
	default:
		return "unknown"
	}
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	variant   Variant
	mode      Mode
	cutoffHz  float64
	resonance float64
}

func defaultConfig() config {
	return config{
		variant:   VariantSin,
		mode:      ModeLow,
		cutoffHz:  defaultCutoffHz,
		resonance: defaultResonance,
	}
}

// WithVariant selects the coefficient form.
func WithVariant(variant Variant) Option {
	return func(cfg *config) error {
		if variant != VariantTan && variant != VariantSin {
			return fmt.Errorf("svf: invalid variant: %d", variant)
		}

		cfg.variant = variant

		return nil
	}
}

// WithMode selects the output mode.
func WithMode(mode Mode) Option {
	return func(cfg *config) error {
		if mode < ModeLow || mode > ModeAllpass {
			return fmt.Errorf("svf: invalid mode: %d", mode)
		}

		cfg.mode = mode

		return nil
	}
}

// WithCutoffHz sets the cutoff frequency in Hz. Must be finite and > 0.
func WithCutoffHz(cutoffHz float64) Option {
	return func(cfg *config) error {
		if cutoffHz <= 0 || math.IsNaN(cutoffHz) || math.IsInf(cutoffHz, 0) {
			return fmt.Errorf("svf: cutoff must be > 0: %f", cutoffHz)
		}

		cfg.cutoffHz = cutoffHz

		return nil
	}
}

// WithResonance sets resonance in [0, 1].
func WithResonance(resonance float64) Option {
	return func(cfg *config) error {
		if resonance < minResonance || resonance > maxResonance ||
			math.IsNaN(resonance) {
			return fmt.Errorf("svf: resonance must be in [%v, %v]: %f",
				minResonance, maxResonance, resonance)
		}

		cfg.resonance = resonance

		return nil
	}
}

// Filter is a two-state trapezoidal state-variable filter producing
// simultaneous low-pass, band-pass and high-pass outputs per sample.
//
// Coefficients are a pure function of (cutoff, resonance, sample rate) and
// are recomputed by every setter; the per-sample path never recomputes them.
type Filter struct {
	variant Variant
	mode    Mode

	sampleRate float64
	cutoffHz   float64
	resonance  float64

	ic1eq float64
	ic2eq float64

	// Shared damping constant.
	k float64

	// Tangent-form coefficients.
	g, a1, a2 float64

	// Sine-form coefficients.
	g0, g1, g2 float64
}

// New creates a filter for the given sample rate.
func New(sampleRate float64, opts ...Option) (*Filter, error) {
	if !core.ValidSampleRate(sampleRate) {
		return nil, fmt.Errorf("svf: sample rate must be > 0: %f", sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Filter{
		variant:    cfg.variant,
		mode:       cfg.mode,
		sampleRate: sampleRate,
		cutoffHz:   cfg.cutoffHz,
		resonance:  cfg.resonance,
	}
	f.recompute()

	return f, nil
}

// SetCutoffHz updates the cutoff frequency and recomputes coefficients.
func (f *Filter) SetCutoffHz(cutoffHz float64) error {
	if cutoffHz <= 0 || math.IsNaN(cutoffHz) || math.IsInf(cutoffHz, 0) {
		return fmt.Errorf("svf: cutoff must be > 0: %f", cutoffHz)
	}

	f.cutoffHz = cutoffHz
	f.recompute()

	return nil
}

// SetResonance updates resonance in [0, 1] and recomputes coefficients.
func (f *Filter) SetResonance(resonance float64) error {
	if resonance < minResonance || resonance > maxResonance ||
		math.IsNaN(resonance) {
		return fmt.Errorf("svf: resonance must be in [%v, %v]: %f",
			minResonance, maxResonance, resonance)
	}

	f.resonance = resonance
	f.recompute()

	return nil
}

// SetSampleRate updates the sample rate and recomputes coefficients.
// Integrator state is preserved.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if !core.ValidSampleRate(sampleRate) {
		return fmt.Errorf("svf: sample rate must be > 0: %f", sampleRate)
	}

	f.sampleRate = sampleRate
	f.recompute()

	return nil
}

// SetMode selects the output mode used by ProcessSample.
func (f *Filter) SetMode(mode Mode) error {
	if mode < ModeLow || mode > ModeAllpass {
		return fmt.Errorf("svf: invalid mode: %d", mode)
	}

	f.mode = mode

	return nil
}

// CutoffHz returns the cutoff frequency in Hz.
func (f *Filter) CutoffHz() float64 { return f.cutoffHz }

// Resonance returns resonance in [0, 1].
func (f *Filter) Resonance() float64 { return f.resonance }

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// ModeValue returns the configured output mode.
func (f *Filter) ModeValue() Mode { return f.mode }

// VariantValue returns the configured coefficient form.
func (f *Filter) VariantValue() Variant { return f.variant }

// recompute derives all coefficients from (cutoff, resonance, sample rate).
func (f *Filter) recompute() {
	ratio := core.Clamp(f.cutoffHz/f.sampleRate, 0, maxCutoffRatio)
	w := math.Pi * ratio

	switch f.variant {
	case VariantTan:
		res := core.Clamp(f.resonance, minResonance, maxTanResonance)
		f.k = 2 - 2*res
		f.g = math.Tan(w)
		f.a1 = 1 / (1 + f.g*(f.g*f.k))
		f.a2 = f.g * f.a1
	default:
		f.k = 2 - sinDampingScale*f.resonance

		s1 := math.Sin(w)
		s2 := math.Sin(2 * w)
		nrm := 1 / (2 + f.k*s2)

		f.g0 = s2 * nrm
		f.g1 = (-2*s1*s1 - f.k*s2) * nrm
		f.g2 = (2 * s1 * s1) * nrm
	}
}

// Tick runs the recurrence on one sample and returns (low, band, high).
// Notch, peak and allpass outputs are linear combinations of these:
//
//	notch   = low + high
//	peak    = low - high
//	allpass = low + high - k*band
func (f *Filter) Tick(sample float64) (low, band, high float64) {
	switch f.variant {
	case VariantTan:
		v1 := f.a1*f.ic1eq + f.a2*(sample-f.ic2eq)
		v2 := f.ic2eq + f.g*v1

		f.ic1eq = 2*v1 - f.ic1eq
		f.ic2eq = 2*v2 - f.ic2eq

		return v2, v1, sample - f.k*v1 - v2
	default:
		t0 := sample - f.ic2eq
		t1 := f.g0*t0 + f.g1*f.ic1eq
		t2 := f.g2*t0 + f.g0*f.ic1eq
		v1 := t1 + f.ic1eq
		v2 := t2 + f.ic2eq

		f.ic1eq += 2 * t1
		f.ic2eq += 2 * t2

		return v2, v1, sample - f.k*v1 - v2
	}
}

// ProcessSample runs the recurrence once and returns the configured mode's
// output.
func (f *Filter) ProcessSample(sample float64) float64 {
	low, band, high := f.Tick(sample)

	switch f.mode {
	case ModeBand:
		return band
	case ModeHigh:
		return high
	case ModeNotch:
		return low + high
	case ModePeak:
		return low - high
	case ModeAllpass:
		return low + high - f.k*band
	default:
		return low
	}
}

// ProcessInPlace applies the filter to buf in place.
func (f *Filter) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = f.ProcessSample(buf[i])
	}
}

// Reset clears integrator state; coefficients are untouched.
func (f *Filter) Reset() {
	f.ic1eq = 0
	f.ic2eq = 0
}
