package pipeline

import "sync"

// Filter processes one mono sample at a time.
type Filter interface {
	ProcessSample(sample float64) float64
}

// StereoFilter processes a stereo sample pair jointly.
type StereoFilter interface {
	ProcessStereoSample(l, r float64) (float64, float64)
}

// Shared is a mutex-guarded handle around a Filter instance, allowing the
// same instance to be registered in more than one pipeline context (e.g. a
// dry pass and a feedback pass). A call into a shared instance completes
// before another caller may enter it; with strictly sequential per-sample
// processing no contention occurs in practice.
type Shared struct {
	mu sync.Mutex
	f  Filter
}

// NewShared wraps f in a shared handle.
func NewShared(f Filter) *Shared {
	return &Shared{f: f}
}

// ProcessSample processes one sample under the handle's lock.
func (s *Shared) ProcessSample(sample float64) float64 {
	s.mu.Lock()
	out := s.f.ProcessSample(sample)
	s.mu.Unlock()

	return out
}

// Do runs fn with exclusive access to the underlying filter, for parameter
// updates that must not interleave with processing.
func (s *Shared) Do(fn func(Filter)) {
	s.mu.Lock()
	fn(s.f)
	s.mu.Unlock()
}

type element struct {
	left  *Shared
	right *Shared
	joint StereoFilter
}

// Pipeline applies an ordered list of registered filter instances to a
// stereo sample pair. It owns the ordering and the registration list only;
// instance state semantics belong to the instances themselves.
type Pipeline struct {
	elements []element
	order    []int
}

// New creates an empty pipeline.
func New() *Pipeline {
	return &Pipeline{}
}

// RegisterStereoPair appends a slot applying left to the left channel and
// right to the right channel in lock-step.
func (p *Pipeline) RegisterStereoPair(left, right *Shared) {
	p.elements = append(p.elements, element{left: left, right: right})
	p.order = append(p.order, len(p.elements)-1)
}

// RegisterJointStereo appends a slot applying f to both channels together.
func (p *Pipeline) RegisterJointStereo(f StereoFilter) {
	p.elements = append(p.elements, element{joint: f})
	p.order = append(p.order, len(p.elements)-1)
}

// Len returns the number of registered slots.
func (p *Pipeline) Len() int {
	return len(p.elements)
}

// ProcessStereo threads the sample pair through every slot in registration
// order and returns the result.
func (p *Pipeline) ProcessStereo(l, r float64) (float64, float64) {
	for _, i := range p.order {
		el := &p.elements[i]
		if el.joint != nil {
			l, r = el.joint.ProcessStereoSample(l, r)
			continue
		}

		l = el.left.ProcessSample(l)
		r = el.right.ProcessSample(r)
	}

	return l, r
}
