// Package pipeline composes independently registered filter instances into
// an ordered stereo processing chain.
//
// Slots hold either one mono [Filter] per channel (a stereo pair, applied in
// lock-step) or one [StereoFilter] processing both channels jointly.
// Instances wrapped in [Shared] may be registered in several pipelines at
// once; each invocation holds the instance's lock for its duration.
package pipeline
