package codec

import (
	"fmt"
	"iter"

	"github.com/ssargent/bncsv/pkg/chunk"
)

// Encode encodes src with the NumericCSV alphabet.
func Encode(src iter.Seq2[byte, error]) iter.Seq2[byte, error] {
	return NumericCSV.Encode(src)
}

// EncodeBytes encodes data with the NumericCSV alphabet. On failure it
// returns the bytes produced before the error along with the error.
func EncodeBytes(data []byte) ([]byte, error) {
	return chunk.Collect(NumericCSV.Encode(chunk.FromSlice(data)))
}

// Bits yields the code bits of every byte of src followed by the EOC code.
// An unsupported byte ends the sequence with ErrInvalidData after the bits
// of all preceding bytes. Errors from src are passed through unchanged.
func (a *Alphabet) Bits(src iter.Seq2[byte, error]) iter.Seq2[Bit, error] {
	return func(yield func(Bit, error) bool) {
		var offset int64
		for b, err := range src {
			if err != nil {
				yield(0, err)
				return
			}
			code, ok := a.book.Lookup(b)
			if !ok {
				yield(0, fmt.Errorf("%w: unsupported byte 0x%02x at offset %d", ErrInvalidData, b, offset))
				return
			}
			for _, bit := range code {
				if !yield(bit, nil) {
					return
				}
			}
			offset++
		}
		for _, bit := range a.symbols[a.eoc].Code {
			if !yield(bit, nil) {
				return
			}
		}
	}
}

// Encode packs the bit stream of src into bytes, most significant bit
// first, zero-padding the final byte. Bits of a byte left incomplete by a
// failure are dropped; every complete byte is yielded before the error.
func (a *Alphabet) Encode(src iter.Seq2[byte, error]) iter.Seq2[byte, error] {
	return func(yield func(byte, error) bool) {
		for group, err := range chunk.Chunks(a.Bits(src), 8) {
			if err != nil {
				yield(0, err)
				return
			}
			if !yield(pack(group), nil) {
				return
			}
		}
	}
}

// pack folds up to eight bits into a byte, first bit highest. Missing low
// bits are zero.
func pack(bits []Bit) byte {
	var b byte
	for i, bit := range bits {
		b |= byte(bit) << (7 - i)
	}
	return b
}
