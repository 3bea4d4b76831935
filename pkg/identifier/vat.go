package identifier

import (
	"ukid/internal/bits"
	"ukid/internal/charset"
	"ukid/internal/checksum"
)

// VAT registration number layout (5 bytes, MSB-first):
//
//	bit  0       present (always 1 once parsed)
//	bits 1-2     VATType
//	standard / branch:
//	  bit  3       97-55 check digits
//	  bits 4-27    main number
//	  bits 28-37   branch code (branch only)
//	government / health authority:
//	  bits 4-15    three digits   Digits (4 bits each)
//
// The check digits are not stored; they are recomputed from the main number
// and the scheme flag. Compact form: the 5 bytes little-endian in a uint64.
const (
	vatBytes      = 5
	vatMinLen     = 7
	vatMaxLen     = 14
	vatTypeBits   = 2
	vatMainBits   = 24
	vatBranchBits = 10
	vatCodeLen    = 3
	vatMainLen    = 7
	vatCheckLen   = 2
	vatCountry    = "GB"
	vatGovernment = "GD"
	vatHealth     = "HA"
)

// VATType distinguishes the four shapes a VAT registration number can take.
type VATType uint8

const (
	VATStandard VATType = iota
	VATBranch
	VATGovernment
	VATHealthAuthority
)

func (t VATType) String() string {
	switch t {
	case VATStandard:
		return "standard"
	case VATBranch:
		return "branch"
	case VATGovernment:
		return "government"
	case VATHealthAuthority:
		return "health authority"
	}
	return "unknown"
}

// VATRegistrationNumber is a validated UK VAT registration number.
//
// Accepted shapes, after the GB country code:
//   - Standard: 7-digit main number and 2 check digits (GB999999973)
//   - Branch: Standard plus a 3-digit branch code (GB999999973001)
//   - Government department: GD and 000-499 (GBGD499)
//   - Health authority: HA and 500-999 (GBHA999)
//
// Check digits must match the mod-97 or the 97-55 scheme.
type VATRegistrationNumber struct {
	b [vatBytes]byte
}

// ParseVATRegistrationNumber parses s, ignoring whitespace and letter case.
// The GB prefix is required.
func ParseVATRegistrationNumber(s string) (VATRegistrationNumber, error) {
	var buf [vatMaxLen]byte
	n, ok := sanitize(s, buf[:], vatMinLen)
	if !ok {
		return VATRegistrationNumber{}, formatErr(KindVATRegistrationNumber, s, "must be 7 to 14 characters")
	}
	text := buf[:n]
	if string(text[:2]) != vatCountry {
		return VATRegistrationNumber{}, formatErr(KindVATRegistrationNumber, s, "must start with GB")
	}
	body := text[2:]

	var (
		v   VATRegistrationNumber
		err error
	)
	switch {
	case len(body) == 2+vatCodeLen && string(body[:2]) == vatGovernment:
		err = v.packCode(s, VATGovernment, body[2:], 0, 499)
	case len(body) == 2+vatCodeLen && string(body[:2]) == vatHealth:
		err = v.packCode(s, VATHealthAuthority, body[2:], 500, 999)
	case len(body) == vatMainLen+vatCheckLen:
		err = v.packStandard(s, VATStandard, body, nil)
	case len(body) == vatMainLen+vatCheckLen+vatCodeLen:
		err = v.packStandard(s, VATBranch, body[:vatMainLen+vatCheckLen], body[vatMainLen+vatCheckLen:])
	default:
		err = formatErr(KindVATRegistrationNumber, s, "does not match a standard, branch, government or health authority number")
	}
	if err != nil {
		return VATRegistrationNumber{}, err
	}
	return v, nil
}

func (v *VATRegistrationNumber) packCode(s string, t VATType, digits []byte, lo, hi uint32) error {
	if !allDigits(digits) {
		return formatErr(KindVATRegistrationNumber, s, "department code must be three digits")
	}
	if code := atoi(digits); code < lo || code > hi {
		return formatErr(KindVATRegistrationNumber, s, t.String()+" code out of range")
	}
	c := bits.NewCursor(v.b[:])
	if !c.WriteBits(1, 1) ||
		!c.WriteBits(byte(t), vatTypeBits) ||
		!c.Skip(1) ||
		c.WriteRun(digits, charset.Digits) != vatCodeLen {
		*v = VATRegistrationNumber{}
		return formatErr(KindVATRegistrationNumber, s, "cannot be encoded")
	}
	return nil
}

func (v *VATRegistrationNumber) packStandard(s string, t VATType, digits, branch []byte) error {
	if !allDigits(digits) || !allDigits(branch) {
		return formatErr(KindVATRegistrationNumber, s, "must be digits after GB")
	}
	main := atoi(digits[:vatMainLen])
	if !checksum.ValidMain(main) {
		return formatErr(KindVATRegistrationNumber, s, "main number is in a reserved range")
	}
	alt, ok := checksum.Verify(main, atoi(digits[vatMainLen:]))
	if !ok {
		return formatErr(KindVATRegistrationNumber, s, "check digits do not match")
	}

	var flag byte
	if alt {
		flag = 1
	}
	c := bits.NewCursor(v.b[:])
	ok = c.WriteBits(1, 1) &&
		c.WriteBits(byte(t), vatTypeBits) &&
		c.WriteBits(flag, 1) &&
		c.WriteUint(uint64(main), vatMainBits)
	if ok && t == VATBranch {
		ok = c.WriteUint(uint64(atoi(branch)), vatBranchBits)
	}
	if !ok {
		*v = VATRegistrationNumber{}
		return formatErr(KindVATRegistrationNumber, s, "cannot be encoded")
	}
	return nil
}

// TryParseVATRegistrationNumber is ParseVATRegistrationNumber without the
// error detail.
func TryParseVATRegistrationNumber(s string) (VATRegistrationNumber, bool) {
	v, err := ParseVATRegistrationNumber(s)
	return v, err == nil
}

// MustVATRegistrationNumber parses s and panics if it is invalid.
func MustVATRegistrationNumber(s string) VATRegistrationNumber {
	v, err := ParseVATRegistrationNumber(s)
	if err != nil {
		panic(err)
	}
	return v
}

// VATRegistrationNumberFromCompact is the inverse of Compact. Only the low
// 40 bits are used.
func VATRegistrationNumberFromCompact(c uint64) VATRegistrationNumber {
	var v VATRegistrationNumber
	fromCompact(v.b[:], c)
	return v
}

// Compact returns the packed bytes as a little-endian integer.
func (v VATRegistrationNumber) Compact() uint64 {
	return toCompact(v.b[:])
}

// CompactValue implements Identifier.
func (v VATRegistrationNumber) CompactValue() uint64 {
	return v.Compact()
}

type vatFields struct {
	present bool
	typ     VATType
	alt     bool
	main    uint32
	branch  uint32
	code    [vatCodeLen]byte
	codeOK  bool
}

func (v VATRegistrationNumber) fields() vatFields {
	var f vatFields
	c := bits.NewCursor(v.b[:])
	p, _ := c.ReadBits(1)
	t, _ := c.ReadBits(vatTypeBits)
	a, _ := c.ReadBits(1)
	f.present, f.typ, f.alt = p == 1, VATType(t), a == 1
	switch f.typ {
	case VATStandard, VATBranch:
		m, _ := c.ReadUint(vatMainBits)
		b, _ := c.ReadUint(vatBranchBits)
		f.main, f.branch = uint32(m), uint32(b)
	default:
		f.codeOK = c.ReadRun(f.code[:], charset.Digits) == vatCodeLen
	}
	return f
}

// Type reports which of the four shapes v has.
func (v VATRegistrationNumber) Type() VATType {
	return v.fields().typ
}

// MainNumber returns the 7-digit main number of a standard or branch number,
// and 0 otherwise.
func (v VATRegistrationNumber) MainNumber() uint32 {
	f := v.fields()
	if f.typ == VATGovernment || f.typ == VATHealthAuthority {
		return 0
	}
	return f.main
}

// CheckDigits returns the two check digits of a standard or branch number.
func (v VATRegistrationNumber) CheckDigits() uint32 {
	f := v.fields()
	if !f.present || f.typ > VATBranch {
		return 0
	}
	return checksum.Compute(f.main, f.alt)
}

// UsesMod9755 reports whether the check digits follow the 97-55 scheme.
func (v VATRegistrationNumber) UsesMod9755() bool {
	f := v.fields()
	return f.typ <= VATBranch && f.alt
}

// BranchCode returns the 3-digit branch code, or 0 when v is not a branch
// number.
func (v VATRegistrationNumber) BranchCode() uint32 {
	f := v.fields()
	if f.typ != VATBranch {
		return 0
	}
	return f.branch
}

// DepartmentCode returns the 3-digit code of a government department or
// health authority number, and 0 otherwise.
func (v VATRegistrationNumber) DepartmentCode() uint32 {
	f := v.fields()
	if f.typ < VATGovernment || !f.codeOK {
		return 0
	}
	return atoi(f.code[:])
}

// Kind implements Identifier.
func (v VATRegistrationNumber) Kind() Kind {
	return KindVATRegistrationNumber
}

// IsZero reports whether v is the zero value.
func (v VATRegistrationNumber) IsZero() bool {
	return v == VATRegistrationNumber{}
}

// Equal reports whether v and o have identical packed bytes.
func (v VATRegistrationNumber) Equal(o VATRegistrationNumber) bool {
	return v == o
}

// Hash is derived from the packed bytes only.
func (v VATRegistrationNumber) Hash() uint64 {
	return hashBytes(v.b[:])
}

func (v VATRegistrationNumber) render(sp spec, dst *[maxText]byte) (int, bool) {
	if v.IsZero() {
		return 0, true
	}
	f := v.fields()
	if !f.present {
		return 0, false
	}
	spaced := sp == specSpaced
	i := copy(dst[:], vatCountry)
	sep := func() {
		if spaced {
			dst[i] = ' '
			i++
		}
	}

	switch f.typ {
	case VATGovernment, VATHealthAuthority:
		if !f.codeOK {
			return 0, false
		}
		sep()
		if f.typ == VATGovernment {
			i += copy(dst[i:], vatGovernment)
		} else {
			i += copy(dst[i:], vatHealth)
		}
		sep()
		i += copy(dst[i:], f.code[:])
		return i, true
	}

	if f.main > checksum.MaxMain {
		return 0, false
	}
	var main [vatMainLen]byte
	putDigits(main[:], f.main)
	sep()
	i += copy(dst[i:], main[:3])
	sep()
	i += copy(dst[i:], main[3:])
	sep()
	putDigits(dst[i:i+vatCheckLen], checksum.Compute(f.main, f.alt))
	i += vatCheckLen
	if f.typ == VATBranch {
		if f.branch > 999 {
			return 0, false
		}
		sep()
		putDigits(dst[i:i+vatCodeLen], f.branch)
		i += vatCodeLen
	}
	return i, true
}

// FormatAs renders v as "GB999999973" ("G") or "GB 999 9999 73" ("S").
func (v VATRegistrationNumber) FormatAs(spec string) (string, error) {
	sp, err := parseSpec(KindVATRegistrationNumber, spec)
	if err != nil {
		return "", err
	}
	var buf [maxText]byte
	n, ok := v.render(sp, &buf)
	if !ok {
		return "", formatErr(KindVATRegistrationNumber, "", "packed value does not decode")
	}
	return string(buf[:n]), nil
}

// TryFormat writes v into dst and returns the number of bytes written.
func (v VATRegistrationNumber) TryFormat(dst []byte, spec string) (int, error) {
	sp, err := parseSpec(KindVATRegistrationNumber, spec)
	if err != nil {
		return 0, err
	}
	var buf [maxText]byte
	n, ok := v.render(sp, &buf)
	if !ok {
		return 0, formatErr(KindVATRegistrationNumber, "", "packed value does not decode")
	}
	return emit(dst, buf[:n])
}

func (v VATRegistrationNumber) String() string {
	s, _ := v.FormatAs(General)
	return s
}
