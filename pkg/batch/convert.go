package batch

import (
	"io"
	"iter"

	"github.com/ssargent/bncsv/pkg/chunk"
)

type byteSeq = iter.Seq2[byte, error]

// Counts are the byte totals of one conversion.
type Counts struct {
	In  int64
	Out int64
}

// counted passes seq through, adding every byte handed on to *n. Bytes a
// decoder never pulls, such as those after EOC, are not counted.
func counted(seq byteSeq, n *int64) byteSeq {
	return func(yield func(byte, error) bool) {
		for b, err := range seq {
			if err == nil {
				*n++
			}
			if !yield(b, err) {
				return
			}
		}
	}
}

// ConvertStream runs the codec for d over r and writes the result to w in
// batches of writeChunk bytes. Output written before a failure stays in w.
func ConvertStream(d Direction, r io.Reader, w io.Writer, writeChunk int) (Counts, error) {
	return convert(d.transform(), r, w, writeChunk)
}

func convert(transform func(byteSeq) byteSeq, r io.Reader, w io.Writer, writeChunk int) (Counts, error) {
	if writeChunk < 1 {
		writeChunk = chunk.DefaultWriteChunk
	}
	var in int64
	out, err := chunk.WriteTo(w, transform(counted(chunk.Bytes(r), &in)), writeChunk)
	return Counts{In: in, Out: out}, err
}
