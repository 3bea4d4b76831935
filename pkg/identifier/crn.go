package identifier

import (
	"ukid/internal/bits"
	"ukid/internal/charset"
)

// Company registration number layout (4 bytes, MSB-first):
//
//	bit  0      present (always 1 once parsed)
//	bit  1      prefixed
//	numeric:    bits 2-31   8-digit number
//	prefixed:   bits 2-6    first letter   Letters (1-26)
//	            bits 7-11   second letter  Letters (1-26)
//	            bits 12-31  6-digit number
//
// Compact form: the 4 bytes little-endian in a uint32.
const (
	crnBytes         = 4
	crnLen           = 8
	crnPrefixLen     = 2
	crnNumericBits   = 30
	crnPrefixNumBits = 20
)

// CompanyRegistrationNumber is a Companies House registration number: either
// eight digits ("01234567") or two letters and six digits ("SC123456").
type CompanyRegistrationNumber struct {
	b [crnBytes]byte
}

// ParseCompanyRegistrationNumber parses s, ignoring whitespace and letter
// case. A prefix that mixes a letter and a digit is rejected.
func ParseCompanyRegistrationNumber(s string) (CompanyRegistrationNumber, error) {
	var buf [crnLen]byte
	n, ok := sanitize(s, buf[:], crnLen)
	if !ok || n != crnLen {
		return CompanyRegistrationNumber{}, formatErr(KindCompanyRegistrationNumber, s, "must be 8 characters")
	}
	prefix, body := buf[:crnPrefixLen], buf[crnPrefixLen:]
	if !allDigits(body) {
		return CompanyRegistrationNumber{}, formatErr(KindCompanyRegistrationNumber, s, "last six characters must be digits")
	}

	var v CompanyRegistrationNumber
	c := bits.NewCursor(v.b[:])
	c.WriteBits(1, 1)
	switch {
	case allDigits(prefix):
		if !c.WriteBits(0, 1) || !c.WriteUint(uint64(atoi(buf[:])), crnNumericBits) {
			return CompanyRegistrationNumber{}, formatErr(KindCompanyRegistrationNumber, s, "cannot be encoded")
		}
	case allLetters(prefix):
		if !c.WriteBits(1, 1) ||
			c.WriteRun(prefix, charset.Letters) != crnPrefixLen ||
			!c.WriteUint(uint64(atoi(body)), crnPrefixNumBits) {
			return CompanyRegistrationNumber{}, formatErr(KindCompanyRegistrationNumber, s, "cannot be encoded")
		}
	default:
		return CompanyRegistrationNumber{}, formatErr(KindCompanyRegistrationNumber, s, "prefix must be two letters or two digits")
	}
	return v, nil
}

// TryParseCompanyRegistrationNumber is ParseCompanyRegistrationNumber without
// the error detail.
func TryParseCompanyRegistrationNumber(s string) (CompanyRegistrationNumber, bool) {
	v, err := ParseCompanyRegistrationNumber(s)
	return v, err == nil
}

// MustCompanyRegistrationNumber parses s and panics if it is invalid.
func MustCompanyRegistrationNumber(s string) CompanyRegistrationNumber {
	v, err := ParseCompanyRegistrationNumber(s)
	if err != nil {
		panic(err)
	}
	return v
}

// CompanyRegistrationNumberFromCompact is the inverse of Compact.
func CompanyRegistrationNumberFromCompact(v uint32) CompanyRegistrationNumber {
	var n CompanyRegistrationNumber
	fromCompact(n.b[:], uint64(v))
	return n
}

// Compact returns the packed bytes as a little-endian integer.
func (n CompanyRegistrationNumber) Compact() uint32 {
	return uint32(toCompact(n.b[:]))
}

// CompactValue implements Identifier.
func (n CompanyRegistrationNumber) CompactValue() uint64 {
	return uint64(n.Compact())
}

func (n CompanyRegistrationNumber) header() (present, prefixed bool) {
	c := bits.NewCursor(n.b[:])
	p, _ := c.ReadBits(1)
	x, _ := c.ReadBits(1)
	return p == 1, x == 1
}

// IsNumeric reports whether n has no letter prefix.
func (n CompanyRegistrationNumber) IsNumeric() bool {
	present, prefixed := n.header()
	return present && !prefixed
}

// Prefix returns the two-letter prefix (e.g. "SC" for Scotland), or "" for
// a fully numeric number.
func (n CompanyRegistrationNumber) Prefix() string {
	if _, prefixed := n.header(); !prefixed {
		return ""
	}
	var buf [crnPrefixLen]byte
	c := bits.NewCursor(n.b[:])
	c.Skip(2)
	return string(buf[:c.ReadRun(buf[:], charset.Letters)])
}

// Number returns the numeric body: all eight digits for a numeric number, the
// six after the prefix otherwise.
func (n CompanyRegistrationNumber) Number() uint32 {
	c := bits.NewCursor(n.b[:])
	c.Skip(2)
	if _, prefixed := n.header(); prefixed {
		c.Skip(crnPrefixLen * charset.Letters.Width())
		v, _ := c.ReadUint(crnPrefixNumBits)
		return uint32(v)
	}
	v, _ := c.ReadUint(crnNumericBits)
	return uint32(v)
}

// Kind implements Identifier.
func (n CompanyRegistrationNumber) Kind() Kind {
	return KindCompanyRegistrationNumber
}

// IsZero reports whether n is the zero value.
func (n CompanyRegistrationNumber) IsZero() bool {
	return n == CompanyRegistrationNumber{}
}

// Equal reports whether n and o have identical packed bytes.
func (n CompanyRegistrationNumber) Equal(o CompanyRegistrationNumber) bool {
	return n == o
}

// Hash is derived from the packed bytes only.
func (n CompanyRegistrationNumber) Hash() uint64 {
	return hashBytes(n.b[:])
}

// render ignores the specifier: both forms are the bare 8 characters.
func (n CompanyRegistrationNumber) render(_ spec, dst *[maxText]byte) (int, bool) {
	if n.IsZero() {
		return 0, true
	}
	c := bits.NewCursor(n.b[:])
	present, _ := c.ReadBits(1)
	prefixed, _ := c.ReadBits(1)
	if present != 1 {
		return 0, false
	}
	if prefixed == 0 {
		v, ok := c.ReadUint(crnNumericBits)
		if !ok || v > 99_999_999 {
			return 0, false
		}
		putDigits(dst[:crnLen], uint32(v))
		return crnLen, true
	}
	if c.ReadRun(dst[:crnPrefixLen], charset.Letters) != crnPrefixLen {
		return 0, false
	}
	v, ok := c.ReadUint(crnPrefixNumBits)
	if !ok || v > 999_999 {
		return 0, false
	}
	putDigits(dst[crnPrefixLen:crnLen], uint32(v))
	return crnLen, true
}

// FormatAs renders n. Company numbers have no separators, so "G" and "S"
// produce the same text.
func (n CompanyRegistrationNumber) FormatAs(spec string) (string, error) {
	sp, err := parseSpec(KindCompanyRegistrationNumber, spec)
	if err != nil {
		return "", err
	}
	var buf [maxText]byte
	m, ok := n.render(sp, &buf)
	if !ok {
		return "", formatErr(KindCompanyRegistrationNumber, "", "packed value does not decode")
	}
	return string(buf[:m]), nil
}

// TryFormat writes n into dst and returns the number of bytes written.
func (n CompanyRegistrationNumber) TryFormat(dst []byte, spec string) (int, error) {
	sp, err := parseSpec(KindCompanyRegistrationNumber, spec)
	if err != nil {
		return 0, err
	}
	var buf [maxText]byte
	m, ok := n.render(sp, &buf)
	if !ok {
		return 0, formatErr(KindCompanyRegistrationNumber, "", "packed value does not decode")
	}
	return emit(dst, buf[:m])
}

func (n CompanyRegistrationNumber) String() string {
	s, _ := n.FormatAs(General)
	return s
}
