// Package codec implements the BNCSV prefix code for numeric CSV text.
//
// BNCSV packs text drawn from a closed alphabet (digits, comma, dot, minus,
// newline and carriage return) into a bit stream using a fixed prefix code.
// Frequent symbols get short codes; no code is a prefix of another, so the
// stream can be parsed greedily without separators.
//
// # Wire Format
//
// An encoded stream is the concatenation, in source order, of the code of
// every input byte, followed by the EOC (end of content) code, followed by
// zero bits up to the next byte boundary. Bits are packed most significant
// bit first:
//
//	5=000  ,=001  .=010  0=0111  1=1010  2=1110  3=1101  4=1001
//	6=1100  7=1111  8=1011  9=1000  -=01101  \n=011001  EOC=011000
//
// Carriage return encodes to zero bits, so CRLF input decodes to LF.
// Any other byte is rejected with ErrInvalidData.
//
// For example "12,3.4\n" encodes to the five bytes AE 3A A5 96 00.
//
// # Usage
//
// Encoding and decoding operate on lazy fallible sequences. A failure is
// delivered as the terminal element of the output sequence; everything
// yielded before it is valid:
//
//	for b, err := range codec.Encode(chunk.Bytes(r)) {
//	    if err != nil {
//	        return err
//	    }
//	    out = append(out, b)
//	}
//
// EncodeBytes and DecodeBytes cover the in-memory case.
//
// # Decoding Leniency
//
// Decoding stops at EOC and ignores whatever follows, including padding.
// A stream that ends before EOC decodes to every complete symbol seen so far
// without reporting an error.
//
// # Thread Safety
//
// An Alphabet, its Codebook and its Trie are immutable after construction
// and safe for concurrent use. NumericCSV is built once at package init.
package codec
