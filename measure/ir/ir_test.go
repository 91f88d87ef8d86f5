package ir_test

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-delay/dsp/effects/reverb"
	"github.com/cwbudde/algo-delay/measure/ir"
)

// expTail builds a sign-alternating exponential tail whose energy falls by
// 60 dB over rt60 seconds.
func expTail(rt60, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / sampleRate
		amp := math.Pow(10, -3*t/rt60)
		if i%2 == 1 {
			amp = -amp
		}
		out[i] = amp
	}

	return out
}

func TestNewAnalyzerValidation(t *testing.T) {
	for _, rate := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := ir.NewAnalyzer(rate); err == nil {
			t.Errorf("sample rate %v accepted", rate)
		}
	}
}

func TestDecayCurveShape(t *testing.T) {
	a, err := ir.NewAnalyzer(48000)
	if err != nil {
		t.Fatal(err)
	}

	curve, err := a.DecayCurve(expTail(0.5, 48000, 24000))
	if err != nil {
		t.Fatal(err)
	}

	if curve[0] != 0 {
		t.Errorf("curve must start at 0 dB: %v", curve[0])
	}
	for i := 1; i < len(curve); i++ {
		if curve[i] > curve[i-1]+1e-9 {
			t.Fatalf("curve not monotonically falling at %d: %v -> %v", i, curve[i-1], curve[i])
		}
	}
}

func TestDecayCurveErrors(t *testing.T) {
	a, err := ir.NewAnalyzer(48000)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.DecayCurve(nil); err != ir.ErrEmptyResponse {
		t.Errorf("empty input: got %v", err)
	}
	if _, err := a.DecayCurve(make([]float64, 100)); err != ir.ErrNoDecay {
		t.Errorf("all-zero input: got %v", err)
	}
}

func TestDecayTimesRecoverKnownRT60(t *testing.T) {
	const sampleRate = 48000

	a, err := ir.NewAnalyzer(sampleRate)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []float64{0.25, 0.5, 1.0} {
		tail := expTail(want, sampleRate, int(2*want*sampleRate))

		times, err := a.DecayTimes(tail)
		if err != nil {
			t.Fatalf("rt60 %v: %v", want, err)
		}
		for name, got := range map[string]float64{
			"EDT": times.EDT, "T20": times.T20, "T30": times.T30, "RT60": times.RT60,
		} {
			if math.Abs(got-want) > want*0.02 {
				t.Errorf("rt60 %v: %s got %v", want, name, got)
			}
		}
	}
}

func TestOnsetSkipsPreDelaySilence(t *testing.T) {
	const sampleRate = 48000

	a, err := ir.NewAnalyzer(sampleRate)
	if err != nil {
		t.Fatal(err)
	}

	tail := expTail(0.5, sampleRate, 24000)
	padded := append(make([]float64, 1000), tail...)

	if got := a.Onset(padded); got != 1000 {
		t.Fatalf("Onset: got %d want 1000", got)
	}

	direct, err := a.RT60(tail)
	if err != nil {
		t.Fatal(err)
	}
	viaPadding, err := a.RT60(padded)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(direct-viaPadding) > direct*0.01 {
		t.Fatalf("pre-delay silence biased the fit: %v vs %v", direct, viaPadding)
	}
}

func TestCaptureStereoValidation(t *testing.T) {
	if _, _, err := ir.CaptureStereo(nil, 100); err != ir.ErrNilProcessor {
		t.Errorf("nil processor: got %v", err)
	}
	rev, err := reverb.NewDattorro(44100, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := ir.CaptureStereo(rev, 0); err != ir.ErrInvalidLength {
		t.Errorf("length 0: got %v", err)
	}
}

func TestReverbTailLengthensWithDecay(t *testing.T) {
	const sampleRate = 44100

	a, err := ir.NewAnalyzer(sampleRate)
	if err != nil {
		t.Fatal(err)
	}

	measure := func(decay float64) float64 {
		rev, err := reverb.NewDattorro(sampleRate, decay, reverb.WithPreDelaySamples(1))
		if err != nil {
			t.Fatal(err)
		}
		left, _, err := ir.CaptureStereo(rev, 4*sampleRate)
		if err != nil {
			t.Fatal(err)
		}
		rt, err := a.RT60(left)
		if err != nil {
			t.Fatal(err)
		}
		return rt
	}

	short := measure(0.3)
	long := measure(0.5)

	if short <= 0 || long <= 0 {
		t.Fatalf("non-positive reverberation times: %v, %v", short, long)
	}
	if long <= short {
		t.Fatalf("tail should lengthen with decay: %v vs %v", short, long)
	}
}
