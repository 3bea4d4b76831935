package identifier

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type companyRecord struct {
	Number   CompanyRegistrationNumber `json:"number"`
	VAT      VATRegistrationNumber     `json:"vat"`
	Postcode PostalCode                `json:"postcode"`
	Director NationalInsuranceNumber   `json:"director,omitempty"`
}

func TestJSON(t *testing.T) {
	in := companyRecord{
		Number:   MustCompanyRegistrationNumber("SC123456"),
		VAT:      MustVATRegistrationNumber("GB999999973"),
		Postcode: MustPostalCode("EH1 1YZ"),
	}

	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"number":"SC123456","vat":"GB999999973","postcode":"EH11YZ","director":""}`, string(raw))

	var out companyRecord
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)

	t.Run("spaced input is accepted", func(t *testing.T) {
		var r companyRecord
		require.NoError(t, json.Unmarshal([]byte(`{"vat":"gb 999 9999 73"}`), &r))
		assert.Equal(t, in.VAT, r.VAT)
	})

	t.Run("invalid text is a format error", func(t *testing.T) {
		var r companyRecord
		err := json.Unmarshal([]byte(`{"number":"1234567A"}`), &r)
		assert.ErrorIs(t, err, ErrFormat)
	})
}

func TestSQL(t *testing.T) {
	t.Run("value stores the compact form", func(t *testing.T) {
		n := MustNationalInsuranceNumber("AB123456C")
		v, err := n.Value()
		require.NoError(t, err)
		assert.Equal(t, int64(n.Compact()), v)

		var zero PostalCode
		v, err = zero.Value()
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("scan accepts every stored representation", func(t *testing.T) {
		want := MustVATRegistrationNumber("GB999999973001")
		sources := []any{int64(want.Compact()), "GB999999973001", []byte("GB 999 9999 73 001")}
		for _, src := range sources {
			var got VATRegistrationNumber
			require.NoError(t, got.Scan(src), "%T", src)
			assert.Equal(t, want, got, "%T", src)
		}

		got := want
		require.NoError(t, got.Scan(nil))
		assert.True(t, got.IsZero())
	})

	t.Run("scan rejects bad sources", func(t *testing.T) {
		var n CompanyRegistrationNumber
		assert.Error(t, n.Scan(int64(-1)))
		assert.Error(t, n.Scan(int64(1)<<40), "out of range for a 4-byte value")
		var p PostalCode
		assert.Error(t, p.Scan(int64(1)<<50), "out of range for a 6-byte value")
		var v VATRegistrationNumber
		assert.Error(t, v.Scan(int64(1)<<40), "out of range for a 5-byte value")
		assert.Error(t, n.Scan(3.14))
		assert.ErrorIs(t, n.Scan("S1234567"), ErrFormat)
	})

	t.Run("value round trips through scan", func(t *testing.T) {
		p := MustPostalCode("DN55 1PT")
		v, err := p.Value()
		require.NoError(t, err)
		var got PostalCode
		require.NoError(t, got.Scan(v))
		assert.Equal(t, p, got)
	})
}
