package interp

import "errors"

// Mode selects the interpolation algorithm used for fractional delay reads.
type Mode int

const (
	// Nearest truncates the fractional delay to the nearest lower integer.
	Nearest Mode = iota
	// Linear blends the two neighboring integer-delay samples.
	Linear
	// Hermite uses 4-point cubic Hermite interpolation.
	Hermite
)

func (m Mode) String() string {
	switch m {
	case Nearest:
		return "nearest"
	case Linear:
		return "linear"
	case Hermite:
		return "hermite"
	default:
		return "unknown"
	}
}

// Valid reports whether m is a known interpolation mode.
func (m Mode) Valid() bool {
	return m >= Nearest && m <= Hermite
}

// ErrInvalidMode is returned when an unknown Mode is configured.
var ErrInvalidMode = errors.New("interp: invalid interpolation mode")

// Linear2 computes 2-point linear interpolation between x0 and x1
// with t in [0,1].
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}
