package codec

import (
	"fmt"
	"iter"

	"github.com/ssargent/bncsv/pkg/chunk"
)

// Decode decodes src with the NumericCSV alphabet.
func Decode(src iter.Seq2[byte, error]) iter.Seq2[byte, error] {
	return NumericCSV.Decode(src)
}

// DecodeBytes decodes data with the NumericCSV alphabet. On failure it
// returns the bytes produced before the error along with the error.
func DecodeBytes(data []byte) ([]byte, error) {
	return chunk.Collect(NumericCSV.Decode(chunk.FromSlice(data)))
}

// Decode expands every byte of src into bits, most significant first, and
// decodes them. See DecodeBits.
func (a *Alphabet) Decode(src iter.Seq2[byte, error]) iter.Seq2[byte, error] {
	return a.DecodeBits(unpack(src))
}

// DecodeBits walks the trie one bit at a time and yields the value of each
// leaf it reaches. Reaching EOC ends decoding; the rest of bits is not
// consumed. A bit with no matching edge, including any value other than 0
// or 1, fails with ErrInvalidData. Running out of bits before EOC ends
// decoding without error and drops the unfinished symbol.
func (a *Alphabet) DecodeBits(bits iter.Seq2[Bit, error]) iter.Seq2[byte, error] {
	return func(yield func(byte, error) bool) {
		t := a.trie
		cur := int32(0)
		var offset int64
		for bit, err := range bits {
			if err != nil {
				yield(0, err)
				return
			}
			next := t.step(cur, bit)
			if next == none {
				yield(0, fmt.Errorf("%w: bit %d at offset %d matches no code", ErrInvalidData, bit, offset))
				return
			}
			offset++

			sym := t.nodes[next].symbol
			if sym == none {
				cur = next
				continue
			}
			if int(sym) == a.eoc {
				return
			}
			if !yield(a.symbols[sym].Value, nil) {
				return
			}
			cur = 0
		}
	}
}

func unpack(src iter.Seq2[byte, error]) iter.Seq2[Bit, error] {
	return func(yield func(Bit, error) bool) {
		for b, err := range src {
			if err != nil {
				yield(0, err)
				return
			}
			for i := 7; i >= 0; i-- {
				if !yield(Bit(b>>i&1), nil) {
					return
				}
			}
		}
	}
}
