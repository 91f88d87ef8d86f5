package delayengine

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/interp"
)

// Jump relocates a cursor that lands on Trigger to Dest instead.
//
// Jumps are evaluated against the landing index after the unconditional +1
// advance, identically for the read and write cursor. Under this policy the
// default wraparound jump (capacity -> 0) is an ordinary table entry, and a
// consistent jump set makes every buffer slot appear exactly once per
// traversal cycle.
type Jump struct {
	Trigger int
	Dest    int
}

// Engine is a single-channel circular delay buffer addressed by independent
// read and write cursors. Jump tables let one physical buffer behave as
// multiple logical banks; the default tables contain only the wraparound
// jump, giving ordinary ring-buffer behavior.
//
// Per-sample operations are allocation-free and never fail; all fallibility
// lives in construction and reconfiguration.
type Engine struct {
	buffer     []float64
	readJumps  []Jump
	writeJumps []Jump
	readHead   int
	writeHead  int

	sampleRate  float64
	delayTimeMs float64
}

// New creates an engine with capacity zeroed samples, both cursors at 0 and
// default wraparound jumps installed.
func New(capacity int, sampleRate float64) (*Engine, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("delayengine: capacity must be >= 1: %d", capacity)
	}
	if !core.ValidSampleRate(sampleRate) {
		return nil, fmt.Errorf("delayengine: sample rate must be > 0: %f", sampleRate)
	}

	return &Engine{
		buffer:     make([]float64, capacity),
		readJumps:  []Jump{{Trigger: capacity, Dest: 0}},
		writeJumps: []Jump{{Trigger: capacity, Dest: 0}},
		sampleRate: sampleRate,
	}, nil
}

// Len returns the buffer capacity in samples.
func (e *Engine) Len() int {
	return len(e.buffer)
}

// SampleRate returns the configured sample rate in Hz.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// ReadCursor returns the current read cursor index.
func (e *Engine) ReadCursor() int { return e.readHead }

// WriteCursor returns the current write cursor index.
func (e *Engine) WriteCursor() int { return e.writeHead }

// PopSample returns the sample at the read cursor and advances it by one,
// applying any jump registered at the landing index.
func (e *Engine) PopSample() float64 {
	sample := e.buffer[e.readHead]

	e.readHead++
	if jump, ok := findJump(e.readHead, e.readJumps); ok {
		e.readHead = jump.Dest
	}

	return sample
}

// WriteSample stores sample at the write cursor and advances it by one,
// applying any jump registered at the landing index.
func (e *Engine) WriteSample(sample float64) {
	e.buffer[e.writeHead] = sample

	e.writeHead++
	if jump, ok := findJump(e.writeHead, e.writeJumps); ok {
		e.writeHead = jump.Dest
	}
}

// SetDelayAmount relocates the write cursor to delaySamples ahead of the read
// cursor, modulo capacity. A sample written afterwards is returned by
// PopSample delaySamples pops later; increasing the argument increases that
// distance. Amounts beyond capacity wrap.
func (e *Engine) SetDelayAmount(delaySamples int) {
	if delaySamples < 0 {
		delaySamples = 0
	}

	e.writeHead = (e.readHead + delaySamples) % len(e.buffer)
}

// SetDelayTimeMs stores the fractional delay time used by InterpolateSample.
// Times mapping beyond capacity wrap the same way SetDelayAmount does.
func (e *Engine) SetDelayTimeMs(ms float64) error {
	if ms < 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return fmt.Errorf("delayengine: delay time must be >= 0 ms: %f", ms)
	}

	e.delayTimeMs = ms

	return nil
}

// DelayTimeMs returns the stored fractional delay time in milliseconds.
func (e *Engine) DelayTimeMs() float64 { return e.delayTimeMs }

// SetSampleRate updates the sample rate used for millisecond-based reads.
// Buffer contents and cursors are untouched.
func (e *Engine) SetSampleRate(sampleRate float64) error {
	if !core.ValidSampleRate(sampleRate) {
		return fmt.Errorf("delayengine: sample rate must be > 0: %f", sampleRate)
	}

	e.sampleRate = sampleRate

	return nil
}

// InterpolateSample computes the output at the fractional delay derived from
// the stored delay time, without mutating the read cursor. The tap point is
// measured behind the write cursor, so with the delay time set to an exact
// integer number of samples the nearest mode reproduces the plain tap value.
func (e *Engine) InterpolateSample(mode interp.Mode) float64 {
	delay := e.delayTimeMs * e.sampleRate / 1000

	whole := math.Floor(delay)
	frac := delay - whole
	d := int(whole)

	switch mode {
	case interp.Linear:
		return interp.Linear2(frac, e.tap(d), e.tap(d+1))
	case interp.Hermite:
		return interp.Hermite4(frac, e.tap(d-1), e.tap(d), e.tap(d+1), e.tap(d+2))
	default:
		return e.tap(d)
	}
}

// tap peeks at an integer delay behind the write cursor.
func (e *Engine) tap(delay int) float64 {
	size := len(e.buffer)
	idx := (e.writeHead - delay) % size
	if idx < 0 {
		idx += size
	}

	return e.buffer[idx]
}

// SetReadJumps replaces the read cursor's jump table. The default wraparound
// jump is appended if no entry triggers at capacity.
func (e *Engine) SetReadJumps(jumps []Jump) error {
	validated, err := e.validateJumps(jumps)
	if err != nil {
		return err
	}

	e.readJumps = validated

	return nil
}

// SetWriteJumps replaces the write cursor's jump table. The default
// wraparound jump is appended if no entry triggers at capacity.
func (e *Engine) SetWriteJumps(jumps []Jump) error {
	validated, err := e.validateJumps(jumps)
	if err != nil {
		return err
	}

	e.writeJumps = validated

	return nil
}

// validateJumps checks triggers and destinations against the current
// capacity. Coverage of the buffer (no stranded slot) is the caller's
// responsibility.
func (e *Engine) validateJumps(jumps []Jump) ([]Jump, error) {
	capacity := len(e.buffer)
	validated := make([]Jump, 0, len(jumps)+1)
	hasWrap := false

	for _, j := range jumps {
		if j.Trigger < 1 || j.Trigger > capacity {
			return nil, fmt.Errorf("delayengine: jump trigger out of range [1, %d]: %d", capacity, j.Trigger)
		}
		if j.Dest < 0 || j.Dest >= capacity {
			return nil, fmt.Errorf("delayengine: jump destination out of range [0, %d): %d", capacity, j.Dest)
		}
		if j.Trigger == capacity {
			hasWrap = true
		}

		validated = append(validated, j)
	}

	if !hasWrap {
		validated = append(validated, Jump{Trigger: capacity, Dest: 0})
	}

	return validated, nil
}

// Reset zeroes buffer contents without touching cursors or jump tables.
func (e *Engine) Reset() {
	for i := range e.buffer {
		e.buffer[i] = 0
	}
}

// Resize reallocates the buffer to newCapacity zeroed samples, wraps both
// cursors modulo the new capacity and reinstalls the default wraparound
// jumps, since existing jump tables may reference out-of-range indices.
func (e *Engine) Resize(newCapacity int) error {
	if newCapacity < 1 {
		return fmt.Errorf("delayengine: capacity must be >= 1: %d", newCapacity)
	}

	e.buffer = make([]float64, newCapacity)
	e.readHead %= newCapacity
	e.writeHead %= newCapacity
	e.readJumps = []Jump{{Trigger: newCapacity, Dest: 0}}
	e.writeJumps = []Jump{{Trigger: newCapacity, Dest: 0}}

	return nil
}

func findJump(index int, jumps []Jump) (Jump, bool) {
	for _, j := range jumps {
		if index == j.Trigger {
			return j, true
		}
	}

	return Jump{}, false
}
