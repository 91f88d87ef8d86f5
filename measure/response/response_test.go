package response_test

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-delay/dsp/filter/svf"
	"github.com/cwbudde/algo-delay/measure/response"
)

func TestImpulseValidation(t *testing.T) {
	if _, err := response.Impulse(nil, 16); err == nil {
		t.Error("nil processor accepted")
	}
	f, err := svf.New(44100)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := response.Impulse(f, 0); err == nil {
		t.Error("length 0 accepted")
	}
}

func TestMagnitudeValidation(t *testing.T) {
	if _, err := response.Magnitude(nil, 44100, 1024); err == nil {
		t.Error("empty input accepted")
	}
	if _, err := response.Magnitude([]float64{1}, 0, 1024); err == nil {
		t.Error("sample rate 0 accepted")
	}
}

func TestIdentityIsFlat(t *testing.T) {
	// A pure impulse has unit magnitude everywhere.
	ir := make([]float64, 64)
	ir[0] = 1

	c, err := response.Magnitude(ir, 48000, 1024)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Bins(); got != 513 {
		t.Fatalf("Bins: got %d want 513", got)
	}
	for i := 0; i < c.Bins(); i++ {
		if math.Abs(c.Magnitudes[i]-1) > 1e-9 {
			t.Fatalf("bin %d (%.0f Hz): got %v want 1", i, c.BinHz(i), c.Magnitudes[i])
		}
	}
	if got := c.PeakMagnitude(); math.Abs(got-1) > 1e-9 {
		t.Fatalf("PeakMagnitude: got %v want 1", got)
	}
}

func TestPureDelayIsFlat(t *testing.T) {
	ir := make([]float64, 64)
	ir[7] = 1

	c, err := response.Magnitude(ir, 48000, 256)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < c.Bins(); i++ {
		if math.Abs(c.Magnitudes[i]-1) > 1e-9 {
			t.Fatalf("bin %d: got %v want 1", i, c.Magnitudes[i])
		}
	}
}

func TestLowPassRollsOff(t *testing.T) {
	const sampleRate = 48000
	f, err := svf.New(sampleRate, svf.WithCutoffHz(1000), svf.WithMode(svf.ModeLow))
	if err != nil {
		t.Fatal(err)
	}

	ir, err := response.Impulse(f, 8192)
	if err != nil {
		t.Fatal(err)
	}
	c, err := response.Magnitude(ir, sampleRate, 8192)
	if err != nil {
		t.Fatal(err)
	}

	if got := c.At(10); math.Abs(got-1) > 0.05 {
		t.Errorf("passband at 10 Hz: got %v want ~1", got)
	}
	if got := c.At(10000); got > 0.05 {
		t.Errorf("stopband at 10 kHz: got %v want near 0", got)
	}
	if c.At(100) < c.At(4000) {
		t.Error("magnitude should fall with frequency for a low-pass")
	}
}

func TestHighPassBlocksDC(t *testing.T) {
	const sampleRate = 48000
	f, err := svf.New(sampleRate, svf.WithCutoffHz(2000), svf.WithMode(svf.ModeHigh))
	if err != nil {
		t.Fatal(err)
	}

	ir, err := response.Impulse(f, 8192)
	if err != nil {
		t.Fatal(err)
	}
	c, err := response.Magnitude(ir, sampleRate, 8192)
	if err != nil {
		t.Fatal(err)
	}

	if got := c.At(20); got > 0.05 {
		t.Errorf("DC region at 20 Hz: got %v want near 0", got)
	}
	if got := c.At(20000); math.Abs(got-1) > 0.1 {
		t.Errorf("passband at 20 kHz: got %v want ~1", got)
	}
}

func TestAllpassIsFlat(t *testing.T) {
	const sampleRate = 48000
	f, err := svf.New(sampleRate, svf.WithCutoffHz(1500), svf.WithMode(svf.ModeAllpass))
	if err != nil {
		t.Fatal(err)
	}

	ir, err := response.Impulse(f, 16384)
	if err != nil {
		t.Fatal(err)
	}
	c, err := response.Magnitude(ir, sampleRate, 16384)
	if err != nil {
		t.Fatal(err)
	}

	// Unit magnitude across the band; edges are skipped because the finite
	// capture truncates the response.
	for _, hz := range []float64{50, 200, 1000, 1500, 4000, 12000, 20000} {
		if got := c.At(hz); math.Abs(got-1) > 0.02 {
			t.Errorf("allpass at %.0f Hz: got %v want ~1", hz, got)
		}
	}
}

func TestBandPassPeaksAtCutoff(t *testing.T) {
	const sampleRate = 48000
	f, err := svf.New(sampleRate, svf.WithCutoffHz(3000), svf.WithMode(svf.ModeBand))
	if err != nil {
		t.Fatal(err)
	}

	ir, err := response.Impulse(f, 8192)
	if err != nil {
		t.Fatal(err)
	}
	c, err := response.Magnitude(ir, sampleRate, 8192)
	if err != nil {
		t.Fatal(err)
	}

	atCutoff := c.At(3000)
	if c.At(100) >= atCutoff || c.At(20000) >= atCutoff {
		t.Errorf("band-pass should peak near cutoff: 100 Hz %v, 3 kHz %v, 20 kHz %v",
			c.At(100), atCutoff, c.At(20000))
	}
}
