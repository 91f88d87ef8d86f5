package effects

import (
	"math"
	"testing"
)

func TestNewPeakFollowerValidation(t *testing.T) {
	if _, err := NewPeakFollower(-1, 0, 44100, 1); err == nil {
		t.Error("negative release accepted")
	}
	if _, err := NewPeakFollower(1, -1, 44100, 1); err == nil {
		t.Error("negative hold accepted")
	}
	if _, err := NewPeakFollower(1, 0, 0, 1); err == nil {
		t.Error("sample rate 0 accepted")
	}
	if _, err := NewPeakFollower(1, 0, 44100, 0); err == nil {
		t.Error("smoothing 0 accepted")
	}
	if _, err := NewPeakFollower(math.NaN(), 0, 44100, 1); err == nil {
		t.Error("NaN release accepted")
	}
}

func TestPeakFollowerTracksRisingPeaks(t *testing.T) {
	p, err := NewPeakFollower(1, 0, 10, 1)
	if err != nil {
		t.Fatal(err)
	}

	if got := p.ProcessSample(0.5); !approxEqual(got, 0.5, 1e-12) {
		t.Fatalf("first peak: got %v want 0.5", got)
	}
	if got := p.ProcessSample(-0.8); !approxEqual(got, 0.8, 1e-12) {
		t.Fatalf("negative peak should register by magnitude: got %v want 0.8", got)
	}
	if got := p.ProcessSample(0.2); got < 0.7 {
		t.Fatalf("peak dropped too fast: %v", got)
	}
}

func TestPeakFollowerHoldThenRelease(t *testing.T) {
	// At 10 Hz each sample advances timers by 0.1 s.
	p, err := NewPeakFollower(1, 0.45, 10, 1)
	if err != nil {
		t.Fatal(err)
	}

	p.ProcessSample(1)

	// Held flat while the hold timer runs down.
	for i := 0; i < 4; i++ {
		if got := p.ProcessSample(0); !approxEqual(got, 1, 1e-12) {
			t.Fatalf("hold sample %d: got %v want 1", i, got)
		}
	}

	// Then falls linearly at release/sampleRate per sample.
	prev := p.Peak()
	fell := false
	for i := 0; i < 4; i++ {
		got := p.ProcessSample(0)
		if got < prev {
			fell = true
		}
		prev = got
	}
	if !fell {
		t.Fatal("peak never released after hold expired")
	}
}

func TestPeakFollowerReleasesToZero(t *testing.T) {
	p, err := NewPeakFollower(10, 0, 10, 1)
	if err != nil {
		t.Fatal(err)
	}

	p.ProcessSample(0.3)
	for i := 0; i < 100; i++ {
		p.ProcessSample(0)
	}
	if got := p.Peak(); got != 0 {
		t.Fatalf("peak should clamp at zero: %v", got)
	}
}

func TestPeakFollowerSmoothing(t *testing.T) {
	p, err := NewPeakFollower(1, 1, 10, 4)
	if err != nil {
		t.Fatal(err)
	}

	// A lone full-scale sample averaged over 4 slots registers as 0.25.
	if got := p.ProcessSample(1); !approxEqual(got, 0.25, 1e-12) {
		t.Fatalf("smoothed peak: got %v want 0.25", got)
	}
	// Sustained input fills the window and the envelope climbs to 1.
	for i := 0; i < 3; i++ {
		p.ProcessSample(1)
	}
	if got := p.Peak(); !approxEqual(got, 1, 1e-12) {
		t.Fatalf("filled window: got %v want 1", got)
	}
}

func TestPeakFollowerPeakDB(t *testing.T) {
	p, err := NewPeakFollower(1, 1, 10, 1)
	if err != nil {
		t.Fatal(err)
	}

	if got := p.PeakDB(); !math.IsInf(got, -1) {
		t.Fatalf("silent envelope in dB: got %v want -Inf", got)
	}
	p.ProcessSample(0.5)
	if got := p.PeakDB(); !approxEqual(got, 20*math.Log10(0.5), 1e-9) {
		t.Fatalf("PeakDB: got %v", got)
	}
}

func TestPeakFollowerReset(t *testing.T) {
	p, err := NewPeakFollower(1, 1, 10, 4)
	if err != nil {
		t.Fatal(err)
	}

	p.ProcessSample(1)
	p.Reset()

	if got := p.Peak(); got != 0 {
		t.Fatalf("peak after Reset: %v", got)
	}
	if got := p.ProcessSample(0); got != 0 {
		t.Fatalf("smoother history after Reset: %v", got)
	}
}
