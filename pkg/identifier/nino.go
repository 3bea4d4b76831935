package identifier

import (
	"strings"

	"ukid/internal/bits"
	"ukid/internal/charset"
)

// National insurance number layout (4 bytes, MSB-first):
//
//	bits 0-4    first prefix letter   Letters (1-26)
//	bits 5-9    second prefix letter  Letters (1-26)
//	bits 10-29  number                0-999999
//	bits 30-31  suffix                Suffix (A-D -> 0-3)
//
// Compact form: the 4 bytes little-endian in a uint32.
const (
	ninoBytes   = 4
	ninoLen     = 9
	ninoNumBits = 20
	ninoDigits  = 6
)

const (
	ninoLetterExcluded = "DFIQUV"
	ninoSecondExcluded = "O"
)

// ninoPrefixExcluded lists prefixes never issued as a whole.
var ninoPrefixExcluded = map[string]bool{
	"BG": true, "GB": true, "KN": true, "NK": true, "NT": true,
	"TN": true, "ZZ": true, "OO": true, "CR": true,
}

// NationalInsuranceNumber is a validated UK national insurance number, e.g.
// "AB123456C".
//
// Invariants:
//   - neither prefix letter is D, F, I, Q, U or V; the second is not O
//   - the prefix is not one of BG, GB, KN, NK, NT, TN, ZZ, OO, CR
//   - six digits follow, then a suffix letter A-D
type NationalInsuranceNumber struct {
	b [ninoBytes]byte
}

// ParseNationalInsuranceNumber parses s, ignoring whitespace and letter case.
func ParseNationalInsuranceNumber(s string) (NationalInsuranceNumber, error) {
	var buf [ninoLen]byte
	n, ok := sanitize(s, buf[:], ninoLen)
	if !ok || n != ninoLen {
		return NationalInsuranceNumber{}, formatErr(KindNationalInsuranceNumber, s, "must be two letters, six digits and a suffix letter")
	}
	prefix, digits, suffix := buf[:2], buf[2:2+ninoDigits], buf[8:]

	if !validNINOPrefix(prefix) {
		return NationalInsuranceNumber{}, formatErr(KindNationalInsuranceNumber, s, "prefix is not issued")
	}
	if !allDigits(digits) {
		return NationalInsuranceNumber{}, formatErr(KindNationalInsuranceNumber, s, "number must be six digits")
	}

	var v NationalInsuranceNumber
	c := bits.NewCursor(v.b[:])
	if c.WriteRun(prefix, charset.Letters) != 2 ||
		!c.WriteUint(uint64(atoi(digits)), ninoNumBits) ||
		c.WriteRun(suffix, charset.Suffix) != 1 {
		return NationalInsuranceNumber{}, formatErr(KindNationalInsuranceNumber, s, "suffix must be A, B, C or D")
	}
	return v, nil
}

func validNINOPrefix(p []byte) bool {
	if !allLetters(p) {
		return false
	}
	if strings.IndexByte(ninoLetterExcluded, p[0]) >= 0 ||
		strings.IndexByte(ninoLetterExcluded, p[1]) >= 0 ||
		strings.IndexByte(ninoSecondExcluded, p[1]) >= 0 {
		return false
	}
	return !ninoPrefixExcluded[string(p)]
}

// TryParseNationalInsuranceNumber is ParseNationalInsuranceNumber without the
// error detail.
func TryParseNationalInsuranceNumber(s string) (NationalInsuranceNumber, bool) {
	v, err := ParseNationalInsuranceNumber(s)
	return v, err == nil
}

// MustNationalInsuranceNumber parses s and panics if it is invalid.
func MustNationalInsuranceNumber(s string) NationalInsuranceNumber {
	v, err := ParseNationalInsuranceNumber(s)
	if err != nil {
		panic(err)
	}
	return v
}

// NationalInsuranceNumberFromCompact is the inverse of Compact. No
// validation is performed.
func NationalInsuranceNumberFromCompact(v uint32) NationalInsuranceNumber {
	var n NationalInsuranceNumber
	fromCompact(n.b[:], uint64(v))
	return n
}

// Compact returns the packed bytes as a little-endian integer.
func (n NationalInsuranceNumber) Compact() uint32 {
	return uint32(toCompact(n.b[:]))
}

// CompactValue implements Identifier.
func (n NationalInsuranceNumber) CompactValue() uint64 {
	return uint64(n.Compact())
}

// Prefix returns the two prefix letters, e.g. "AB".
func (n NationalInsuranceNumber) Prefix() string {
	var buf [2]byte
	c := bits.NewCursor(n.b[:])
	return string(buf[:c.ReadRun(buf[:], charset.Letters)])
}

// Number returns the six-digit main number.
func (n NationalInsuranceNumber) Number() uint32 {
	c := bits.NewCursor(n.b[:])
	c.Skip(2 * charset.Letters.Width())
	v, _ := c.ReadUint(ninoNumBits)
	return uint32(v)
}

// Suffix returns the suffix letter A-D, or 0 for the zero value.
func (n NationalInsuranceNumber) Suffix() byte {
	if n.IsZero() {
		return 0
	}
	c := bits.NewCursor(n.b[:])
	c.Skip(2*charset.Letters.Width() + ninoNumBits)
	var buf [1]byte
	c.ReadRun(buf[:], charset.Suffix)
	return buf[0]
}

// Kind implements Identifier.
func (n NationalInsuranceNumber) Kind() Kind {
	return KindNationalInsuranceNumber
}

// IsZero reports whether n is the zero value.
func (n NationalInsuranceNumber) IsZero() bool {
	return n == NationalInsuranceNumber{}
}

// Equal reports whether n and o have identical packed bytes.
func (n NationalInsuranceNumber) Equal(o NationalInsuranceNumber) bool {
	return n == o
}

// Hash is derived from the packed bytes only.
func (n NationalInsuranceNumber) Hash() uint64 {
	return hashBytes(n.b[:])
}

// render mirrors the pack order: prefix, number, suffix.
func (n NationalInsuranceNumber) render(sp spec, dst *[maxText]byte) (int, bool) {
	if n.IsZero() {
		return 0, true
	}
	var digits [ninoDigits]byte
	c := bits.NewCursor(n.b[:])
	if c.ReadRun(dst[:2], charset.Letters) != 2 {
		return 0, false
	}
	num, ok := c.ReadUint(ninoNumBits)
	if !ok || num > 999_999 {
		return 0, false
	}
	putDigits(digits[:], uint32(num))

	i := 2
	if sp == specSpaced {
		for g := 0; g < ninoDigits; g += 2 {
			dst[i] = ' '
			dst[i+1], dst[i+2] = digits[g], digits[g+1]
			i += 3
		}
		dst[i] = ' '
		i++
	} else {
		i += copy(dst[i:], digits[:])
	}
	if c.ReadRun(dst[i:i+1], charset.Suffix) != 1 {
		return 0, false
	}
	return i + 1, true
}

// FormatAs renders n as "AB123456C" ("G") or "AB 12 34 56 C" ("S").
func (n NationalInsuranceNumber) FormatAs(spec string) (string, error) {
	sp, err := parseSpec(KindNationalInsuranceNumber, spec)
	if err != nil {
		return "", err
	}
	var buf [maxText]byte
	m, ok := n.render(sp, &buf)
	if !ok {
		return "", formatErr(KindNationalInsuranceNumber, "", "packed value does not decode")
	}
	return string(buf[:m]), nil
}

// TryFormat writes n into dst and returns the number of bytes written.
func (n NationalInsuranceNumber) TryFormat(dst []byte, spec string) (int, error) {
	sp, err := parseSpec(KindNationalInsuranceNumber, spec)
	if err != nil {
		return 0, err
	}
	var buf [maxText]byte
	m, ok := n.render(sp, &buf)
	if !ok {
		return 0, formatErr(KindNationalInsuranceNumber, "", "packed value does not decode")
	}
	return emit(dst, buf[:m])
}

// String returns the General form.
func (n NationalInsuranceNumber) String() string {
	s, _ := n.FormatAs(General)
	return s
}
