// Package morph provides the block processor that blends two audio streams
// by spectral morphing.
//
// Every call to [Processor.Process] appends the incoming chunk to a rolling
// history of W samples per stream, morphs the whole history with
// [spectral.Morpher], and crossfades a settled sub-range of the result with
// the sub-range carried over from the previous call. Re-analyzing an
// overlapping window from scratch on every call produces a different result
// for the same samples each time; the [Continuity] crossfade hides that seam.
//
// Output for a chunk of n samples lags the input by [Processor.Latency](n) =
// n + TailOffset samples.
//
// In [ModeDual] both morph directions (A towards B at weight k, and at
// weight 1-k) run through their own continuity state and are faded per
// sample by the fade weights. [Stereo] runs one Processor per channel pair
// over a single shared FFT plan.
//
// Processors are single-threaded, allocate only at construction and when the
// chunk length changes, and never return errors from Process. Precondition
// violations such as mismatched slice lengths panic.
package morph
