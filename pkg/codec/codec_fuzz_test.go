//go:build fuzz
// +build fuzz

package codec

import (
	"bytes"
	"errors"
	"testing"
)

// FuzzEncode_RoundTrip checks decode(encode(x)) == x without CR for inputs
// over the alphabet, and ErrInvalidData for everything else.
func FuzzEncode_RoundTrip(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("12,3.4\n"))
	f.Add([]byte("-0.5,1e3\r\n"))
	f.Add([]byte{0x00, 0xFF})

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 100000 {
			t.Skip("Input too large for fuzz test")
		}

		encoded, err := EncodeBytes(data)
		if err != nil {
			if !errors.Is(err, ErrInvalidData) {
				t.Fatalf("Encode failed with unexpected error: %v", err)
			}
			return
		}

		decoded, err := DecodeBytes(encoded)
		if err != nil {
			t.Fatalf("Decode failed for encoded data: len=%d %v", len(encoded), err)
		}

		want := bytes.ReplaceAll(data, []byte{'\r'}, nil)
		if !bytes.Equal(decoded, want) {
			t.Errorf("Round trip mismatch: got %q, want %q", decoded, want)
		}
	})
}

// FuzzDecode_NoPanic feeds arbitrary bytes to the decoder
func FuzzDecode_NoPanic(f *testing.F) {
	f.Add([]byte{0xAE, 0x3A, 0xA5, 0x96, 0x00})
	f.Add([]byte{0xFF})

	f.Fuzz(func(t *testing.T, data []byte) {
		// The numeric alphabet is a complete code, so decoding never fails.
		if _, err := DecodeBytes(data); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
	})
}
