package identifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompanyRegistrationNumber(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		prefix  string
		number  uint32
		numeric bool
	}{
		{"01234567", "01234567", "", 1234567, true},
		{"00000001", "00000001", "", 1, true},
		{"99999999", "99999999", "", 99999999, true},
		{"SC123456", "SC123456", "SC", 123456, false},
		{"sc 123 456", "SC123456", "SC", 123456, false},
		{"NI000001", "NI000001", "NI", 1, false},
		{"OC300000", "OC300000", "OC", 300000, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, err := ParseCompanyRegistrationNumber(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.String())
			assert.Equal(t, tt.prefix, n.Prefix())
			assert.Equal(t, tt.number, n.Number())
			assert.Equal(t, tt.numeric, n.IsNumeric())

			spaced, err := n.FormatAs(Spaced)
			require.NoError(t, err)
			assert.Equal(t, tt.want, spaced, "company numbers have no separators")
		})
	}
}

func TestParseCompanyRegistrationNumber_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"letter in numeric body", "1234567A"},
		{"mixed prefix", "S1234567"},
		{"mixed prefix digit first", "1C123456"},
		{"seven characters", "1234567"},
		{"nine characters", "123456789"},
		{"three letter prefix", "SCA23456"},
		{"punctuation", "SC-12345"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ParseCompanyRegistrationNumber(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFormat)
			assert.True(t, n.IsZero())
		})
	}
}

func TestCompanyRegistrationNumber_Compact(t *testing.T) {
	t.Run("prefixed layout", func(t *testing.T) {
		n := MustCompanyRegistrationNumber("SC123456")
		assert.Equal(t, uint32(0x40E2_31E6), n.Compact())
	})

	t.Run("numeric layout", func(t *testing.T) {
		n := MustCompanyRegistrationNumber("01234567")
		assert.Equal(t, uint32(0x87D6_1280), n.Compact())
	})

	t.Run("round trip", func(t *testing.T) {
		for _, s := range []string{"00000000", "01234567", "SC123456", "ZZ999999"} {
			n := MustCompanyRegistrationNumber(s)
			assert.False(t, n.IsZero(), s)
			assert.Equal(t, n, CompanyRegistrationNumberFromCompact(n.Compact()), s)
		}
	})

	t.Run("all-zero number differs from the zero value", func(t *testing.T) {
		n := MustCompanyRegistrationNumber("00000000")
		assert.NotEqual(t, CompanyRegistrationNumber{}, n)
		assert.Equal(t, "00000000", n.String())
	})

	t.Run("missing presence bit does not render", func(t *testing.T) {
		_, err := CompanyRegistrationNumberFromCompact(0x0100_0000).FormatAs(General)
		assert.ErrorIs(t, err, ErrFormat)
	})
}
