package chunk

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
)

// ErrIO marks failures of the underlying reader or writer, as opposed to
// malformed data.
var ErrIO = errors.New("i/o failure")

// Bytes exposes r as a lazy byte sequence. Readers that are not already
// io.ByteReaders are buffered. A read error ends the sequence with an
// error wrapping ErrIO; io.EOF ends it cleanly.
func Bytes(r io.Reader) iter.Seq2[byte, error] {
	return func(yield func(byte, error) bool) {
		br, ok := r.(io.ByteReader)
		if !ok {
			br = bufio.NewReader(r)
		}
		for {
			b, err := br.ReadByte()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(0, fmt.Errorf("%w: read: %w", ErrIO, err))
				return
			}
			if !yield(b, nil) {
				return
			}
		}
	}
}

// WriteTo drains seq into w, n bytes per Write call. It stops at the first
// sequence error, which is returned as is, or at the first write error,
// which is wrapped with ErrIO. The returned count covers every byte that
// reached w.
func WriteTo(w io.Writer, seq iter.Seq2[byte, error], n int) (int64, error) {
	var written int64
	for batch, err := range Chunks(seq, n) {
		if err != nil {
			return written, err
		}
		nw, err := w.Write(batch)
		written += int64(nw)
		if err != nil {
			return written, fmt.Errorf("%w: write: %w", ErrIO, err)
		}
	}
	return written, nil
}
