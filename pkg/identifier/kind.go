package identifier

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Kind names one of the supported identifier formats.
type Kind uint8

const (
	KindPostalCode Kind = iota + 1
	KindNationalInsuranceNumber
	KindCompanyRegistrationNumber
	KindVATRegistrationNumber
)

var kindNames = map[Kind]string{
	KindPostalCode:                "postcode",
	KindNationalInsuranceNumber:   "nino",
	KindCompanyRegistrationNumber: "crn",
	KindVATRegistrationNumber:     "vat",
}

var kindDescriptions = map[Kind]string{
	KindPostalCode:                "postal code",
	KindNationalInsuranceNumber:   "national insurance number",
	KindCompanyRegistrationNumber: "company registration number",
	KindVATRegistrationNumber:     "VAT registration number",
}

// ParseKind accepts the short names used in URLs and configuration:
// postcode, nino, crn and vat.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown identifier kind: %q", s)
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindPostalCode,
		KindNationalInsuranceNumber,
		KindCompanyRegistrationNumber,
		KindVATRegistrationNumber,
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Description is the human-readable name used in error messages.
func (k Kind) Description() string {
	if d, ok := kindDescriptions[k]; ok {
		return d
	}
	return "identifier"
}

// Identifier is the behaviour shared by the four value types. Adapters that
// handle any kind (HTTP, storage) work against this interface.
type Identifier interface {
	Kind() Kind
	String() string
	FormatAs(spec string) (string, error)
	TryFormat(dst []byte, spec string) (int, error)
	CompactValue() uint64
	IsZero() bool
	Hash() uint64
}

var (
	_ Identifier = PostalCode{}
	_ Identifier = NationalInsuranceNumber{}
	_ Identifier = CompanyRegistrationNumber{}
	_ Identifier = VATRegistrationNumber{}
)

// Parse parses s as the given kind.
func Parse(kind Kind, s string) (Identifier, error) {
	switch kind {
	case KindPostalCode:
		return ParsePostalCode(s)
	case KindNationalInsuranceNumber:
		return ParseNationalInsuranceNumber(s)
	case KindCompanyRegistrationNumber:
		return ParseCompanyRegistrationNumber(s)
	case KindVATRegistrationNumber:
		return ParseVATRegistrationNumber(s)
	}
	return nil, fmt.Errorf("unknown identifier kind: %d", uint8(kind))
}

// FromCompact rebuilds a value of the given kind from its compact form. No
// grammar validation is performed; v must come from a trusted store. Values
// with bits set above the kind's packed width are rejected, so a successful
// result always compacts back to v.
func FromCompact(kind Kind, v uint64) (Identifier, error) {
	switch kind {
	case KindPostalCode:
		if !fitsBytes(v, outwardBytes+inwardBytes) {
			return nil, outOfRange(kind, v)
		}
		return PostalCodeFromCompact(v), nil
	case KindNationalInsuranceNumber:
		if !fitsBytes(v, 4) {
			return nil, outOfRange(kind, v)
		}
		return NationalInsuranceNumberFromCompact(uint32(v)), nil
	case KindCompanyRegistrationNumber:
		if !fitsBytes(v, 4) {
			return nil, outOfRange(kind, v)
		}
		return CompanyRegistrationNumberFromCompact(uint32(v)), nil
	case KindVATRegistrationNumber:
		if !fitsBytes(v, vatBytes) {
			return nil, outOfRange(kind, v)
		}
		return VATRegistrationNumberFromCompact(v), nil
	}
	return nil, fmt.Errorf("unknown identifier kind: %d", uint8(kind))
}

// fitsBytes reports whether v has no bits set above its n low bytes.
func fitsBytes(v uint64, n int) bool {
	return n >= 8 || v>>(8*n) == 0
}

func outOfRange(kind Kind, v uint64) error {
	return fmt.Errorf("compact %s out of range: %d", kind, v)
}

// toCompact concatenates b little-endian.
func toCompact(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// fromCompact spreads v little-endian across b; bytes beyond len(b) are
// dropped.
func fromCompact(b []byte, v uint64) {
	for i := range b {
		b[i] = byte(v)
		v >>= 8
	}
}

func hashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}
