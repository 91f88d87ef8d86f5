package effects_test

import (
	"fmt"

	"github.com/cwbudde/algo-delay/dsp/effects"
	"github.com/cwbudde/algo-delay/dsp/filter/pipeline"
	"github.com/cwbudde/algo-delay/dsp/filter/svf"
)

func ExampleStereoEcho() {
	// At 1000 Hz a millisecond is exactly one sample.
	echo, err := effects.NewStereoEcho(64, 1000)
	if err != nil {
		panic(err)
	}
	if err := echo.SetLeftDelayTimeMs(3); err != nil {
		panic(err)
	}
	if err := echo.SetLeftFeedback(0); err != nil {
		panic(err)
	}
	if err := echo.SetMix(1); err != nil {
		panic(err)
	}

	l, _ := echo.ProcessSample(1, 0)
	fmt.Printf("%.1f ", l)
	for i := 0; i < 4; i++ {
		l, _ = echo.ProcessSample(0, 0)
		fmt.Printf("%.1f ", l)
	}
	fmt.Println()
	// Output:
	// 0.0 0.0 0.0 1.0 0.0
}

func ExampleStereoEcho_SetFeedbackPipeline() {
	echo, err := effects.NewStereoEcho(1024, 44100)
	if err != nil {
		panic(err)
	}

	// Darken every feedback pass with a low-pass on each channel.
	low, err := svf.New(44100, svf.WithCutoffHz(2500))
	if err != nil {
		panic(err)
	}
	lowR, err := svf.New(44100, svf.WithCutoffHz(2500))
	if err != nil {
		panic(err)
	}

	p := pipeline.New()
	p.RegisterStereoPair(pipeline.NewShared(low), pipeline.NewShared(lowR))
	echo.SetFeedbackPipeline(p)

	fmt.Println(p.Len())
	// Output:
	// 1
}

func ExamplePeakFollower() {
	meter, err := effects.NewPeakFollower(1, 0.5, 10, 1)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%.2f\n", meter.ProcessSample(0.75))
	fmt.Printf("%.2f\n", meter.ProcessSample(0))
	// Output:
	// 0.75
	// 0.75
}
