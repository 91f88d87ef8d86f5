package svf

import "testing"

func BenchmarkProcessSample(b *testing.B) {
	tests := []struct {
		name    string
		variant Variant
		mode    Mode
	}{
		{name: "tan_low", variant: VariantTan, mode: ModeLow},
		{name: "tan_allpass", variant: VariantTan, mode: ModeAllpass},
		{name: "sin_low", variant: VariantSin, mode: ModeLow},
		{name: "sin_notch", variant: VariantSin, mode: ModeNotch},
	}

	for _, tc := range tests {
		b.Run(tc.name, func(b *testing.B) {
			f, err := New(48000,
				WithVariant(tc.variant),
				WithMode(tc.mode),
				WithCutoffHz(1800),
				WithResonance(0.4),
			)
			if err != nil {
				b.Fatalf("New() error = %v", err)
			}

			b.ReportAllocs()
			b.ResetTimer()

			acc := 0.0
			for i := 0; i < b.N; i++ {
				acc += f.ProcessSample(float64(i&255) * 0.001)
			}
			_ = acc
		})
	}
}
