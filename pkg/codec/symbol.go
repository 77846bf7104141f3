package codec

import (
	"errors"
	"fmt"
)

// Bit is a single code bit. Only 0 and 1 are valid.
type Bit uint8

// Symbol pairs a source byte with its code.
type Symbol struct {
	Code  []Bit
	Value byte
}

var (
	// ErrInvalidData reports an unsupported input byte while encoding or a
	// bit path that matches no code while decoding.
	ErrInvalidData = errors.New("invalid data")
	// ErrInvalidAlphabet reports a symbol set that is not a usable prefix code.
	ErrInvalidAlphabet = errors.New("invalid alphabet")
)

// numeric CSV symbols
var (
	symbol5       = Symbol{Code: []Bit{0, 0, 0}, Value: '5'}
	symbolComma   = Symbol{Code: []Bit{0, 0, 1}, Value: ','}
	symbolDot     = Symbol{Code: []Bit{0, 1, 0}, Value: '.'}
	symbol0       = Symbol{Code: []Bit{0, 1, 1, 1}, Value: '0'}
	symbol1       = Symbol{Code: []Bit{1, 0, 1, 0}, Value: '1'}
	symbol2       = Symbol{Code: []Bit{1, 1, 1, 0}, Value: '2'}
	symbol3       = Symbol{Code: []Bit{1, 1, 0, 1}, Value: '3'}
	symbol4       = Symbol{Code: []Bit{1, 0, 0, 1}, Value: '4'}
	symbol6       = Symbol{Code: []Bit{1, 1, 0, 0}, Value: '6'}
	symbol7       = Symbol{Code: []Bit{1, 1, 1, 1}, Value: '7'}
	symbol8       = Symbol{Code: []Bit{1, 0, 1, 1}, Value: '8'}
	symbol9       = Symbol{Code: []Bit{1, 0, 0, 0}, Value: '9'}
	symbolMinus   = Symbol{Code: []Bit{0, 1, 1, 0, 1}, Value: '-'}
	symbolNewline = Symbol{Code: []Bit{0, 1, 1, 0, 0, 1}, Value: '\n'}
	symbolEOC     = Symbol{Code: []Bit{0, 1, 1, 0, 0, 0}}
)

// NumericCSV is the alphabet of the BNCSV format.
var NumericCSV = mustAlphabet(NewAlphabet(
	[]Symbol{
		symbol0, symbol1, symbol2, symbol3, symbol4,
		symbol5, symbol6, symbol7, symbol8, symbol9,
		symbolComma, symbolDot, symbolMinus, symbolNewline,
	},
	symbolEOC,
	'\r',
))

func mustAlphabet(a *Alphabet, err error) *Alphabet {
	if err != nil {
		panic(err)
	}
	return a
}

// HasPrefix reports whether p's code is a prefix of s's code. A code is a
// prefix of itself.
func (s Symbol) HasPrefix(p Symbol) bool {
	if len(p.Code) > len(s.Code) {
		return false
	}
	for i, b := range p.Code {
		if s.Code[i] != b {
			return false
		}
	}
	return true
}

// String renders the code as a bit string, e.g. "0111".
func (s Symbol) String() string {
	buf := make([]byte, len(s.Code))
	for i, b := range s.Code {
		buf[i] = '0' + byte(b)
	}
	return fmt.Sprintf("%q=%s", s.Value, buf)
}
