// Package charset maps restricted character alphabets onto dense integer
// codes so identifiers can be bit-packed at the narrowest width their
// alphabet allows.
//
// A Transcoder is built from input ranges (used when encoding) and output
// ranges (used when decoding). Input ranges may overlap in code space, which
// is how both letter cases fold onto one canonical code. Output ranges may
// cover a strict subset of the input alphabet when a position is known to
// decode to one character class only.
package charset

import (
	"fmt"
	"math/bits"
	"slices"
	"sort"
)

// Range maps the characters First..Last (inclusive) to consecutive codes
// starting at Code.
type Range struct {
	First byte
	Last  byte
	Code  uint8
}

func (r Range) lastCode() uint8 {
	return r.Code + (r.Last - r.First)
}

// Transcoder converts between characters and codes. It is immutable after
// construction and safe for concurrent use.
type Transcoder struct {
	in    []Range // sorted by First
	out   []Range // sorted by Code
	width int
}

// New builds a Transcoder. Ranges must be well formed and output ranges must
// not overlap in code space; New panics otherwise since tables are fixed at
// compile time.
func New(input, output []Range) *Transcoder {
	in := slices.Clone(input)
	out := slices.Clone(output)
	slices.SortFunc(in, func(a, b Range) int { return int(a.First) - int(b.First) })
	slices.SortFunc(out, func(a, b Range) int { return int(a.Code) - int(b.Code) })

	var maxCode uint8
	for i, r := range in {
		if r.Last < r.First || int(r.Code)+int(r.Last-r.First) > 0xFF {
			panic(fmt.Sprintf("charset: malformed input range %q-%q", r.First, r.Last))
		}
		if i > 0 && in[i-1].Last >= r.First {
			panic(fmt.Sprintf("charset: overlapping input ranges at %q", r.First))
		}
		maxCode = max(maxCode, r.lastCode())
	}
	for i, r := range out {
		if r.Last < r.First || int(r.Code)+int(r.Last-r.First) > 0xFF {
			panic(fmt.Sprintf("charset: malformed output range %q-%q", r.First, r.Last))
		}
		if i > 0 && out[i-1].lastCode() >= r.Code {
			panic(fmt.Sprintf("charset: overlapping output codes at %d", r.Code))
		}
	}

	return &Transcoder{in: in, out: out, width: max(bits.Len8(maxCode), 1)}
}

// Encode returns the code for c.
func (t *Transcoder) Encode(c byte) (uint8, bool) {
	i := sort.Search(len(t.in), func(i int) bool { return t.in[i].Last >= c })
	if i == len(t.in) || c < t.in[i].First {
		return 0, false
	}
	r := t.in[i]
	return r.Code + (c - r.First), true
}

// Decode returns the canonical character for code.
func (t *Transcoder) Decode(code uint8) (byte, bool) {
	i := sort.Search(len(t.out), func(i int) bool { return t.out[i].lastCode() >= code })
	if i == len(t.out) || code < t.out[i].Code {
		return 0, false
	}
	r := t.out[i]
	return r.First + (code - r.Code), true
}

// Width is the number of bits needed for the largest code.
func (t *Transcoder) Width() int {
	return t.width
}

// Contains reports whether c encodes and its code decodes back, i.e. c
// belongs to both the input and output alphabets.
func (t *Transcoder) Contains(c byte) bool {
	code, ok := t.Encode(c)
	if !ok {
		return false
	}
	_, ok = t.Decode(code)
	return ok
}
