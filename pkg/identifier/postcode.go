package identifier

import (
	"strings"

	"ukid/internal/bits"
	"ukid/internal/charset"
)

// Postal code layout. Each half is packed independently, MSB-first, using
// the 6-bit Alphanumeric alphabet (code 0 = no character):
//
//	OutwardCode (3 bytes)    bits 0-23   up to 4 chars, zero-padded
//	InwardCode  (3 bytes)    bits 0-17   digit, letter, letter; bits 18-23 zero
//
// PostalCode is the outward bytes followed by the inward bytes; its compact
// form is those 6 bytes little-endian in a uint64.
const (
	outwardBytes = 3
	inwardBytes  = 3
	outwardMax   = 4
	inwardLen    = 3

	postalMinLen = 5
	postalMaxLen = outwardMax + inwardLen
)

// Positional rules of the outward code.
const (
	outwardFirstExcluded  = "QVX"
	outwardSecondExcluded = "IJZ"
	outwardThirdAllowed   = "ABCDEFGHJKPSTUW" // A9A
	outwardFourthAllowed  = "ABEHMNPRVWXY"    // AA9A
	inwardLetterExcluded  = "CIKMOV"
)

// girobank is the historical Girobank code, valid outside the normal grammar.
const girobank = "GIR0AA"

// OutwardCode is the area and district half of a postal code, e.g. "SW1A".
type OutwardCode struct {
	b [outwardBytes]byte
}

// InwardCode is the sector and unit half of a postal code, e.g. "0AA".
type InwardCode struct {
	b [inwardBytes]byte
}

// PostalCode is a validated UK postal code.
//
// Invariants:
//   - outward code matches one of A9, A99, AA9, AA99, A9A, AA9A with the
//     positional letter restrictions
//   - inward code is a digit followed by two letters outside CIKMOV
//   - "GIR 0AA" is accepted as a literal exception
type PostalCode struct {
	outward OutwardCode
	inward  InwardCode
}

// ParsePostalCode parses s, ignoring whitespace and letter case.
func ParsePostalCode(s string) (PostalCode, error) {
	var buf [postalMaxLen]byte
	n, ok := sanitize(s, buf[:], postalMinLen)
	if !ok {
		return PostalCode{}, formatErr(KindPostalCode, s, "must be 5 to 7 letters and digits")
	}
	text := buf[:n]
	out, in := text[:n-inwardLen], text[n-inwardLen:]

	if string(text) != girobank {
		if !validOutward(out) {
			return PostalCode{}, formatErr(KindPostalCode, s, "outward code does not match a UK pattern")
		}
		if !validInward(in) {
			return PostalCode{}, formatErr(KindPostalCode, s, "inward code must be a digit and two permitted letters")
		}
	}

	var p PostalCode
	if !p.outward.pack(out) || !p.inward.pack(in) {
		return PostalCode{}, formatErr(KindPostalCode, s, "cannot be encoded")
	}
	return p, nil
}

// TryParsePostalCode is ParsePostalCode without the error detail.
func TryParsePostalCode(s string) (PostalCode, bool) {
	p, err := ParsePostalCode(s)
	return p, err == nil
}

// MustPostalCode parses s and panics if it is invalid.
// Use only in tests or with literals known to be valid.
func MustPostalCode(s string) PostalCode {
	p, err := ParsePostalCode(s)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseOutwardCode parses a standalone outward code such as "SW1A".
func ParseOutwardCode(s string) (OutwardCode, error) {
	var buf [outwardMax]byte
	n, ok := sanitize(s, buf[:], 2)
	if !ok || !validOutward(buf[:n]) {
		return OutwardCode{}, formatErr(KindPostalCode, s, "outward code does not match a UK pattern")
	}
	var o OutwardCode
	if !o.pack(buf[:n]) {
		return OutwardCode{}, formatErr(KindPostalCode, s, "cannot be encoded")
	}
	return o, nil
}

// ParseInwardCode parses a standalone inward code such as "0AA".
func ParseInwardCode(s string) (InwardCode, error) {
	var buf [inwardLen]byte
	n, ok := sanitize(s, buf[:], inwardLen)
	if !ok || !validInward(buf[:n]) {
		return InwardCode{}, formatErr(KindPostalCode, s, "inward code must be a digit and two permitted letters")
	}
	var i InwardCode
	if !i.pack(buf[:n]) {
		return InwardCode{}, formatErr(KindPostalCode, s, "cannot be encoded")
	}
	return i, nil
}

// validOutward checks the A9 / A99 / AA9 / AA99 / A9A / AA9A patterns.
func validOutward(s []byte) bool {
	if len(s) < 2 || len(s) > outwardMax {
		return false
	}
	if !charset.IsUpper(s[0]) || strings.IndexByte(outwardFirstExcluded, s[0]) >= 0 {
		return false
	}

	// Letters after the first form the area; the rest is the district.
	area := 1
	if charset.IsUpper(s[1]) {
		if strings.IndexByte(outwardSecondExcluded, s[1]) >= 0 {
			return false
		}
		area = 2
	}
	district := s[area:]
	switch len(district) {
	case 1:
		return charset.IsDigit(district[0])
	case 2:
		if !charset.IsDigit(district[0]) {
			return false
		}
		if charset.IsDigit(district[1]) {
			return true
		}
		if area == 1 {
			return strings.IndexByte(outwardThirdAllowed, district[1]) >= 0
		}
		return strings.IndexByte(outwardFourthAllowed, district[1]) >= 0
	}
	return false
}

func validInward(s []byte) bool {
	if len(s) != inwardLen || !charset.IsDigit(s[0]) {
		return false
	}
	for _, c := range s[1:] {
		if !charset.IsUpper(c) || strings.IndexByte(inwardLetterExcluded, c) >= 0 {
			return false
		}
	}
	return true
}

func (o *OutwardCode) pack(s []byte) bool {
	c := bits.NewCursor(o.b[:])
	if c.WriteRun(s, charset.Alphanumeric) != len(s) {
		*o = OutwardCode{}
		return false
	}
	return true
}

func (i *InwardCode) pack(s []byte) bool {
	c := bits.NewCursor(i.b[:])
	if c.WriteRun(s[:1], charset.Alphanumeric) != 1 ||
		c.WriteRun(s[1:], charset.AlphanumericLetters) != 2 {
		*i = InwardCode{}
		return false
	}
	return true
}

// render writes the outward characters; a zero code ends the run.
func (o OutwardCode) render(dst []byte) int {
	c := bits.NewCursor(o.b[:])
	return c.ReadRun(dst[:outwardMax], charset.Alphanumeric)
}

func (i InwardCode) render(dst []byte) (int, bool) {
	c := bits.NewCursor(i.b[:])
	if c.ReadRun(dst[:1], charset.Alphanumeric) != 1 {
		return 0, false
	}
	if c.ReadRun(dst[1:inwardLen], charset.AlphanumericLetters) != 2 {
		return 0, false
	}
	return inwardLen, true
}

// String returns the outward code, e.g. "SW1A".
func (o OutwardCode) String() string {
	var buf [outwardMax]byte
	return string(buf[:o.render(buf[:])])
}

// IsZero reports whether o is the zero value.
func (o OutwardCode) IsZero() bool {
	return o == OutwardCode{}
}

// Area returns the leading letters of the outward code, e.g. "SW".
func (o OutwardCode) Area() string {
	s := o.String()
	n := 0
	for n < len(s) && charset.IsUpper(s[n]) {
		n++
	}
	return s[:n]
}

// District returns the outward code after the area, e.g. "1A".
func (o OutwardCode) District() string {
	s := o.String()
	return s[len(o.Area()):]
}

// String returns the inward code, e.g. "0AA".
func (i InwardCode) String() string {
	var buf [inwardLen]byte
	n, ok := i.render(buf[:])
	if !ok {
		return ""
	}
	return string(buf[:n])
}

// IsZero reports whether i is the zero value.
func (i InwardCode) IsZero() bool {
	return i == InwardCode{}
}

// Outward returns the outward half.
func (p PostalCode) Outward() OutwardCode {
	return p.outward
}

// Inward returns the inward half.
func (p PostalCode) Inward() InwardCode {
	return p.inward
}

// Area is shorthand for p.Outward().Area().
func (p PostalCode) Area() string {
	return p.outward.Area()
}

// District is shorthand for p.Outward().District().
func (p PostalCode) District() string {
	return p.outward.District()
}

// Sector returns the outward code and the inward digit, e.g. "SW1A 0".
func (p PostalCode) Sector() string {
	in := p.inward.String()
	if in == "" {
		return ""
	}
	return p.outward.String() + " " + in[:1]
}

// IsGirobank reports whether p is the special "GIR 0AA" code.
func (p PostalCode) IsGirobank() bool {
	return p == girobankCode
}

var girobankCode = MustPostalCode(girobank)

// Kind implements Identifier.
func (p PostalCode) Kind() Kind {
	return KindPostalCode
}

// IsZero reports whether p is the zero value, which no successful parse
// produces.
func (p PostalCode) IsZero() bool {
	return p == PostalCode{}
}

// Equal reports whether p and o have identical packed bytes.
func (p PostalCode) Equal(o PostalCode) bool {
	return p == o
}

func (p PostalCode) bytes() [outwardBytes + inwardBytes]byte {
	var b [outwardBytes + inwardBytes]byte
	copy(b[:outwardBytes], p.outward.b[:])
	copy(b[outwardBytes:], p.inward.b[:])
	return b
}

// Compact returns the packed bytes as a little-endian integer.
func (p PostalCode) Compact() uint64 {
	b := p.bytes()
	return toCompact(b[:])
}

// CompactValue implements Identifier.
func (p PostalCode) CompactValue() uint64 {
	return p.Compact()
}

// PostalCodeFromCompact is the inverse of Compact. Only the low 48 bits are
// used and no validation is performed.
func PostalCodeFromCompact(v uint64) PostalCode {
	var b [outwardBytes + inwardBytes]byte
	fromCompact(b[:], v)
	var p PostalCode
	copy(p.outward.b[:], b[:outwardBytes])
	copy(p.inward.b[:], b[outwardBytes:])
	return p
}

// Hash is derived from the packed bytes only, so equal values hash equally.
func (p PostalCode) Hash() uint64 {
	b := p.bytes()
	return hashBytes(b[:])
}

func (p PostalCode) render(sp spec, dst *[maxText]byte) (int, bool) {
	if p.IsZero() {
		return 0, true
	}
	n := p.outward.render(dst[:])
	if n == 0 {
		return 0, false
	}
	if sp == specSpaced {
		dst[n] = ' '
		n++
	}
	m, ok := p.inward.render(dst[n:])
	if !ok {
		return 0, false
	}
	return n + m, true
}

// FormatAs renders p with the given specifier ("G" or "S").
func (p PostalCode) FormatAs(spec string) (string, error) {
	sp, err := parseSpec(KindPostalCode, spec)
	if err != nil {
		return "", err
	}
	var buf [maxText]byte
	n, ok := p.render(sp, &buf)
	if !ok {
		return "", formatErr(KindPostalCode, "", "packed value does not decode")
	}
	return string(buf[:n]), nil
}

// TryFormat writes p into dst and returns the number of bytes written.
func (p PostalCode) TryFormat(dst []byte, spec string) (int, error) {
	sp, err := parseSpec(KindPostalCode, spec)
	if err != nil {
		return 0, err
	}
	var buf [maxText]byte
	n, ok := p.render(sp, &buf)
	if !ok {
		return 0, formatErr(KindPostalCode, "", "packed value does not decode")
	}
	return emit(dst, buf[:n])
}

// String returns the General form, e.g. "SW1A0AA". The zero value renders
// as the empty string.
func (p PostalCode) String() string {
	s, _ := p.FormatAs(General)
	return s
}
