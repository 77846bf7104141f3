package batch

import (
	"fmt"
	"strings"

	"github.com/ssargent/bncsv/pkg/codec"
)

// Direction selects the codec applied to every task of a batch.
type Direction int

const (
	// Encode converts CSV text to BNCSV.
	Encode Direction = iota
	// Decode converts BNCSV back to CSV text.
	Decode
)

// ParseDirection maps an input type ("csv" or "bncsv") to the direction
// that converts it.
func ParseDirection(inputType string) (Direction, error) {
	switch strings.ToLower(inputType) {
	case "csv":
		return Encode, nil
	case "bncsv":
		return Decode, nil
	default:
		return 0, fmt.Errorf("%w: unsupported input type %q (want csv or bncsv)", ErrConfiguration, inputType)
	}
}

// Extension is the file extension of the conversion result.
func (d Direction) Extension() string {
	if d == Decode {
		return "csv"
	}
	return "bncsv"
}

func (d Direction) String() string {
	if d == Decode {
		return "BNCSV->CSV"
	}
	return "CSV->BNCSV"
}

// transform resolves the codec once so workers never branch on direction
// per byte.
func (d Direction) transform() func(byteSeq) byteSeq {
	if d == Decode {
		return codec.Decode
	}
	return codec.Encode
}
