// Package chunk groups lazy fallible sequences into bounded batches.
//
// The codec packs its bit stream into bytes with Chunks(bits, 8), and file
// writers drain codec output in batches of DefaultWriteChunk bytes so that
// no conversion ever buffers more than a few kilobytes.
package chunk

import (
	"iter"
)

const (
	// DefaultWriteChunk is the number of bytes handed to a writer per call.
	DefaultWriteChunk = 2048
	// MinWriteChunk and MaxWriteChunk bound configurable write batches.
	MinWriteChunk = 2048
	MaxWriteChunk = 4096
)

// Chunks groups seq into ordered batches of up to n items. The last batch
// may be shorter. An error met while filling a batch discards that batch
// and is yielded as the sole terminal element; nothing follows it.
//
// Every batch is a freshly allocated slice, so callers may retain it.
func Chunks[T any](seq iter.Seq2[T, error], n int) iter.Seq2[[]T, error] {
	if n < 1 {
		panic("chunk: batch size must be positive")
	}
	return func(yield func([]T, error) bool) {
		buf := make([]T, 0, n)
		for v, err := range seq {
			if err != nil {
				yield(nil, err)
				return
			}
			buf = append(buf, v)
			if len(buf) < n {
				continue
			}
			if !yield(buf, nil) {
				return
			}
			buf = make([]T, 0, n)
		}
		if len(buf) > 0 {
			yield(buf, nil)
		}
	}
}

// FromSlice returns an infallible sequence over s.
func FromSlice[T any](s []T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, v := range s {
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Collect drains seq into a slice. On error it returns the items gathered
// before the failure together with the error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}
