package reverb

import "math"

// delayLine is a fixed-capacity ring buffer with one configurable tap.
// Each network sub-entity owns exactly one; none is shared.
type delayLine struct {
	buffer     []float64
	delay      int
	writeIndex int
}

func newDelayLine(maxDelay int) *delayLine {
	return &delayLine{
		buffer: make([]float64, maxDelay),
		delay:  maxDelay,
	}
}

func (d *delayLine) setDelay(delay int) {
	d.delay = delay
}

// process returns the sample delayed by the configured length and overwrites
// that slot with input (read-then-write on the same slot when delay equals
// capacity).
func (d *delayLine) process(input float64) float64 {
	delayed := d.buffer[d.tapIndex(d.delay)]

	d.buffer[d.writeIndex] = input
	d.writeIndex = (d.writeIndex + 1) % len(d.buffer)

	return delayed
}

// get peeks at the configured delay without mutating.
func (d *delayLine) get() float64 {
	return d.buffer[d.tapIndex(d.delay)]
}

// getWithDelay peeks at an arbitrary offset without mutating.
func (d *delayLine) getWithDelay(delay int) float64 {
	return d.buffer[d.tapIndex(delay)]
}

// insert writes without reading.
func (d *delayLine) insert(input float64) {
	d.buffer[d.writeIndex] = input
	d.writeIndex = (d.writeIndex + 1) % len(d.buffer)
}

func (d *delayLine) tapIndex(delay int) int {
	idx := (d.writeIndex - delay) % len(d.buffer)
	if idx < 0 {
		idx += len(d.buffer)
	}

	return idx
}

func (d *delayLine) reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writeIndex = 0
}

// inputDiffusor is a one-pole allpass built from a single delay tap. It
// smears transients in time without altering the magnitude spectrum.
type inputDiffusor struct {
	line *delayLine
	gain float64
}

func newInputDiffusor(delay int, gain float64) *inputDiffusor {
	return &inputDiffusor{
		line: newDelayLine(delay),
		gain: gain,
	}
}

func (a *inputDiffusor) process(input float64) float64 {
	delayed := a.line.get()
	changed := input - delayed*a.gain

	a.line.insert(changed)

	return delayed + changed*a.gain
}

// tap exposes the internal tap point used by the output stage.
func (a *inputDiffusor) tap() float64 {
	return a.line.getWithDelay(0)
}

func (a *inputDiffusor) reset() {
	a.line.reset()
}

// decayDiffusor is an allpass with a sign-flipped feedback path and a slowly
// modulated delay length. The excursion decorrelates the reverb tail and
// avoids metallic periodicity.
type decayDiffusor struct {
	line  *delayLine
	delay int
	gain  float64

	sampleRate     float64
	excursion      float64
	excursionTick  float64
	excursionRate  float64
	excursionDepth float64
}

const excursionHeadroom = 16

func newDecayDiffusor(sampleRate float64, delay int, gain float64) *decayDiffusor {
	return &decayDiffusor{
		line:           newDelayLine(delay + excursionHeadroom),
		delay:          delay,
		gain:           gain,
		sampleRate:     sampleRate,
		excursionRate:  1,
		excursionDepth: 8,
	}
}

func (d *decayDiffusor) process(input float64) float64 {
	d.modulateExcursion()

	offset := int(math.Floor(d.excursion))
	if offset < 0 {
		offset = 0
	}

	delayed := d.line.getWithDelay(d.delay + offset)
	changed := input + delayed*d.gain

	d.line.insert(changed)

	return delayed - changed*d.gain
}

// modulateExcursion advances the excursion oscillator by 1/sampleRate.
func (d *decayDiffusor) modulateExcursion() {
	d.excursion = math.Sin(d.excursionTick*d.excursionRate) * d.excursionDepth
	d.excursionTick += 1 / d.sampleRate
}

func (d *decayDiffusor) reset() {
	d.line.reset()
	d.excursion = 0
	d.excursionTick = 0
}

// damper is a one-pole low-pass smoother rolling off high frequencies as
// energy recirculates.
type damper struct {
	lastSample float64
	damping    float64
}

func newDamper(damping float64) *damper {
	return &damper{damping: damping}
}

func (d *damper) process(input float64) float64 {
	out := input*(1-d.damping) + d.lastSample*d.damping
	d.lastSample = out

	return out
}

func (d *damper) reset() {
	d.lastSample = 0
}
