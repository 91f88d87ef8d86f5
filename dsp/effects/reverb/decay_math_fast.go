//go:build fastmath

package reverb

import (
	"github.com/meko-christian/algo-approx"
)

// mathExp computes e^x using fast approximation. RT60 conversions run on
// parameter changes, where approximation error is inaudible.
func mathExp(x float64) float64 {
	return approx.FastExp(x)
}

// mathLog computes ln(x) using fast approximation.
func mathLog(x float64) float64 {
	return approx.FastLog(x)
}
