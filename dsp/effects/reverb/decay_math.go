//go:build !fastmath

package reverb

import "math"

// mathExp computes e^x using the standard library.
func mathExp(x float64) float64 {
	return math.Exp(x)
}

// mathLog computes ln(x) using the standard library.
func mathLog(x float64) float64 {
	return math.Log(x)
}
