// Package effects provides host-facing audio effect engines built on the
// delay and filter primitives: a stereo feedback echo with pluggable filter
// hooks and a peak-envelope follower for metering.
//
// Engines expose per-sample control setters and expect the host to smooth
// parameter changes; setters validate ranges but never interpolate.
package effects
