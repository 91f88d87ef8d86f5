package svf_test

import (
	"fmt"

	"github.com/cwbudde/algo-delay/dsp/filter/svf"
)

func ExampleFilter_Tick() {
	f, err := svf.New(44100, svf.WithCutoffHz(2000), svf.WithResonance(0.3))
	if err != nil {
		fmt.Println("error")
		return
	}

	low, band, high := f.Tick(1)
	notch := low + high
	peak := low - high

	fmt.Printf("notch-peak distinct: %v\n", notch != peak)
	_ = band
	// Output:
	// notch-peak distinct: true
}

func ExampleFilter_ProcessSample() {
	f, err := svf.New(48000,
		svf.WithVariant(svf.VariantTan),
		svf.WithMode(svf.ModeBand),
		svf.WithCutoffHz(1500),
	)
	if err != nil {
		fmt.Println("error")
		return
	}

	buf := []float64{1, 0, 0, 0}
	f.ProcessInPlace(buf)

	fmt.Printf("len=%d\n", len(buf))
	// Output:
	// len=4
}
