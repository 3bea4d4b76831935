package identifier

import (
	"database/sql/driver"
	"fmt"
)

// Text and SQL adapters. Text uses the General form, so JSON carries
// identifiers as canonical strings. SQL stores the compact form as a
// BIGINT; the zero value maps to NULL.

func (p PostalCode) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *PostalCode) UnmarshalText(b []byte) error {
	return unmarshal(p, string(b), ParsePostalCode)
}

func (p PostalCode) Value() (driver.Value, error) { return value(p) }

func (p *PostalCode) Scan(src any) error { return scan(p, KindPostalCode, src, ParsePostalCode) }

func (n NationalInsuranceNumber) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

func (n *NationalInsuranceNumber) UnmarshalText(b []byte) error {
	return unmarshal(n, string(b), ParseNationalInsuranceNumber)
}

func (n NationalInsuranceNumber) Value() (driver.Value, error) { return value(n) }

func (n *NationalInsuranceNumber) Scan(src any) error {
	return scan(n, KindNationalInsuranceNumber, src, ParseNationalInsuranceNumber)
}

func (n CompanyRegistrationNumber) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

func (n *CompanyRegistrationNumber) UnmarshalText(b []byte) error {
	return unmarshal(n, string(b), ParseCompanyRegistrationNumber)
}

func (n CompanyRegistrationNumber) Value() (driver.Value, error) { return value(n) }

func (n *CompanyRegistrationNumber) Scan(src any) error {
	return scan(n, KindCompanyRegistrationNumber, src, ParseCompanyRegistrationNumber)
}

func (v VATRegistrationNumber) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *VATRegistrationNumber) UnmarshalText(b []byte) error {
	return unmarshal(v, string(b), ParseVATRegistrationNumber)
}

func (v VATRegistrationNumber) Value() (driver.Value, error) { return value(v) }

func (v *VATRegistrationNumber) Scan(src any) error {
	return scan(v, KindVATRegistrationNumber, src, ParseVATRegistrationNumber)
}

// unmarshal treats empty text as the zero value so optional JSON fields
// round-trip.
func unmarshal[T Identifier](dst *T, s string, parse func(string) (T, error)) error {
	var zero T
	if s == "" {
		*dst = zero
		return nil
	}
	v, err := parse(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func value(id Identifier) (driver.Value, error) {
	if id.IsZero() {
		return nil, nil
	}
	return int64(id.CompactValue()), nil
}

// scan accepts the compact BIGINT written by Value, or text for columns
// that hold the formatted identifier.
func scan[T Identifier](dst *T, kind Kind, src any, parse func(string) (T, error)) error {
	var zero T
	switch s := src.(type) {
	case nil:
		*dst = zero
		return nil
	case int64:
		if s < 0 {
			return fmt.Errorf("scan %s: negative compact value %d", kind, s)
		}
		id, err := FromCompact(kind, uint64(s))
		if err != nil {
			return fmt.Errorf("scan %s: %w", kind, err)
		}
		*dst = id.(T)
		return nil
	case string:
		return unmarshal(dst, s, parse)
	case []byte:
		return unmarshal(dst, string(s), parse)
	}
	return fmt.Errorf("scan %s: unsupported source type %T", kind, src)
}
