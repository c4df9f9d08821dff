// Package buffer provides the fixed-capacity rolling sample history used by
// block processors that re-analyze an overlapping window on every call.
//
// [Ring] rotates a zero offset instead of moving samples, so appending a
// chunk costs O(len(chunk)) and dropping the oldest samples is free. Index 0
// is always the oldest retained sample and Len()-1 the newest. [Ring.Slices]
// exposes a logical range as at most two raw slices for zero-copy reads.
package buffer
