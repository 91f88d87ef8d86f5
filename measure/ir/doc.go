// Package ir analyzes the decay of impulse responses.
//
// It captures reverb tails from stereo processors, converts them into
// Schroeder decay curves, and fits standard reverberation time estimates
// (EDT, T20, T30, RT60) on those curves.
package ir
