package identifier

import (
	"unicode"
	"unicode/utf8"

	"ukid/internal/charset"
)

// Format specifiers understood by FormatAs and TryFormat.
const (
	// General renders the compact form with no separators, e.g. "SW1A0AA".
	General = "G"
	// Spaced inserts the literal separators of the kind's grammar, e.g. "SW1A 0AA".
	Spaced = "S"
)

// maxText bounds every rendered form (the spaced VAT branch form is 18).
const maxText = 18

type spec uint8

const (
	specGeneral spec = iota
	specSpaced
)

// parseSpec accepts "", "G", "g", "S" and "s".
func parseSpec(kind Kind, s string) (spec, error) {
	switch s {
	case "", "G", "g":
		return specGeneral, nil
	case "S", "s":
		return specSpaced, nil
	}
	return 0, formatErr(kind, s, "unknown format specifier")
}

// sanitize copies s into buf with all whitespace removed and ASCII letters
// upper-cased. It fails on any other non-ASCII rune and when the result does
// not fit buf or is shorter than minLen.
func sanitize(s string, buf []byte, minLen int) (int, bool) {
	n := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			i++
			if isSpace(c) {
				continue
			}
			if n == len(buf) {
				return 0, false
			}
			buf[n] = charset.ToUpper(c)
			n++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			return 0, false
		}
		i += size
	}
	if n < minLen {
		return 0, false
	}
	return n, true
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func allDigits(b []byte) bool {
	for _, c := range b {
		if !charset.IsDigit(c) {
			return false
		}
	}
	return true
}

func allLetters(b []byte) bool {
	for _, c := range b {
		if !charset.IsUpper(c) {
			return false
		}
	}
	return true
}

// atoi converts an all-digit slice. Callers check allDigits first.
func atoi(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v*10 + uint32(c-'0')
	}
	return v
}

// putDigits writes v as exactly len(dst) zero-padded decimal digits.
func putDigits(dst []byte, v uint32) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte('0' + v%10)
		v /= 10
	}
}

// emit copies a rendered value into dst with the capacity check TryFormat
// promises.
func emit(dst, text []byte) (int, error) {
	if len(dst) < len(text) {
		return 0, &CapacityError{Need: len(text), Have: len(dst)}
	}
	return copy(dst, text), nil
}
