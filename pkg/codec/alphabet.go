package codec

import (
	"fmt"
	"slices"
)

// Codebook maps every byte value to its code. Bytes outside the alphabet
// are unsupported; stripped bytes map to an empty code.
type Codebook struct {
	codes     [256][]Bit
	supported [256]bool
}

// Lookup returns the code for b and whether b is supported at all. A
// supported byte may have an empty code, in which case it is dropped.
func (c *Codebook) Lookup(b byte) ([]Bit, bool) {
	return c.codes[b], c.supported[b]
}

// Alphabet bundles a prefix code with its Codebook and Decoding Trie.
type Alphabet struct {
	symbols []Symbol // alphabet symbols followed by EOC
	eoc     int
	book    Codebook
	trie    *Trie
}

// NewAlphabet validates symbols and eoc as a prefix code and builds the
// encoding table and decoding trie for it. Bytes listed in stripped are
// accepted by the encoder and produce no bits.
func NewAlphabet(symbols []Symbol, eoc Symbol, stripped ...byte) (*Alphabet, error) {
	all := make([]Symbol, 0, len(symbols)+1)
	for _, s := range symbols {
		all = append(all, Symbol{Code: slices.Clone(s.Code), Value: s.Value})
	}
	all = append(all, Symbol{Code: slices.Clone(eoc.Code), Value: eoc.Value})

	if err := validate(all); err != nil {
		return nil, err
	}

	a := &Alphabet{symbols: all, eoc: len(all) - 1}
	for _, s := range all[:a.eoc] {
		if a.book.supported[s.Value] {
			return nil, fmt.Errorf("%w: byte 0x%02x assigned twice", ErrInvalidAlphabet, s.Value)
		}
		a.book.codes[s.Value] = s.Code
		a.book.supported[s.Value] = true
	}
	for _, b := range stripped {
		if a.book.supported[b] {
			return nil, fmt.Errorf("%w: stripped byte 0x%02x also has a code", ErrInvalidAlphabet, b)
		}
		a.book.codes[b] = []Bit{}
		a.book.supported[b] = true
	}
	a.trie = buildTrie(all)
	return a, nil
}

func validate(symbols []Symbol) error {
	for _, s := range symbols {
		if len(s.Code) == 0 {
			return fmt.Errorf("%w: empty code for byte 0x%02x", ErrInvalidAlphabet, s.Value)
		}
		for _, b := range s.Code {
			if b > 1 {
				return fmt.Errorf("%w: bit value %d in code for byte 0x%02x", ErrInvalidAlphabet, b, s.Value)
			}
		}
	}
	for i, s := range symbols {
		for j, p := range symbols {
			if i != j && s.HasPrefix(p) {
				return fmt.Errorf("%w: code %s is a prefix of %s", ErrInvalidAlphabet, p, s)
			}
		}
	}
	return nil
}

// Codebook returns the encoding table.
func (a *Alphabet) Codebook() *Codebook { return &a.book }

// Trie returns the decoding trie.
func (a *Alphabet) Trie() *Trie { return a.trie }

// Symbols returns a copy of the alphabet's symbols, EOC excluded.
func (a *Alphabet) Symbols() []Symbol {
	out := make([]Symbol, a.eoc)
	for i, s := range a.symbols[:a.eoc] {
		out[i] = Symbol{Code: slices.Clone(s.Code), Value: s.Value}
	}
	return out
}

// EOC returns a copy of the end-of-content symbol.
func (a *Alphabet) EOC() Symbol {
	s := a.symbols[a.eoc]
	return Symbol{Code: slices.Clone(s.Code), Value: s.Value}
}
