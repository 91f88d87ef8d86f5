package delayengine

import (
	"testing"

	"github.com/cwbudde/algo-delay/dsp/interp"
)

func BenchmarkWritePop(b *testing.B) {
	e, err := New(44100, 44100)
	if err != nil {
		b.Fatal(err)
	}
	e.SetDelayAmount(22050)

	b.ReportAllocs()
	b.ResetTimer()

	acc := 0.0
	for i := 0; i < b.N; i++ {
		e.WriteSample(float64(i&1023) * 0.001)
		acc += e.PopSample()
	}
	_ = acc
}

func BenchmarkInterpolateSample(b *testing.B) {
	modes := []struct {
		name string
		mode interp.Mode
	}{
		{"nearest", interp.Nearest},
		{"linear", interp.Linear},
		{"hermite", interp.Hermite},
	}

	for _, tc := range modes {
		b.Run(tc.name, func(b *testing.B) {
			e, err := New(44100, 44100)
			if err != nil {
				b.Fatal(err)
			}
			if err := e.SetDelayTimeMs(123.4); err != nil {
				b.Fatal(err)
			}
			for i := 0; i < 44100; i++ {
				e.WriteSample(float64(i&255) * 0.01)
			}

			b.ReportAllocs()
			b.ResetTimer()

			acc := 0.0
			for i := 0; i < b.N; i++ {
				acc += e.InterpolateSample(tc.mode)
			}
			_ = acc
		})
	}
}
