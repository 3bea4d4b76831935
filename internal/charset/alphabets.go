package charset

// Shared alphabets. Code 0 is left unused by Letters and Alphanumeric so a
// zeroed field never decodes to a character; that keeps the zero value of
// every identifier distinguishable from a parsed one.
var (
	// Digits: '0'-'9' -> 0-9, 4 bits.
	Digits = New(
		[]Range{{'0', '9', 0}},
		[]Range{{'0', '9', 0}},
	)

	// Letters: 'A'-'Z' and 'a'-'z' -> 1-26, 5 bits. Decodes upper case.
	Letters = New(
		[]Range{{'A', 'Z', 1}, {'a', 'z', 1}},
		[]Range{{'A', 'Z', 1}},
	)

	// Alphanumeric: '0'-'9' -> 1-10, letters -> 11-36, 6 bits.
	Alphanumeric = New(
		[]Range{{'0', '9', 1}, {'A', 'Z', 11}, {'a', 'z', 11}},
		[]Range{{'0', '9', 1}, {'A', 'Z', 11}},
	)

	// AlphanumericLetters shares Alphanumeric's code space but only decodes
	// letters. Used where a position has already been classified as
	// alphabetic.
	AlphanumericLetters = New(
		[]Range{{'0', '9', 1}, {'A', 'Z', 11}, {'a', 'z', 11}},
		[]Range{{'A', 'Z', 11}},
	)

	// Suffix: the NINO suffix letters 'A'-'D' -> 0-3, 2 bits.
	Suffix = New(
		[]Range{{'A', 'D', 0}, {'a', 'd', 0}},
		[]Range{{'A', 'D', 0}},
	)
)

// IsDigit reports whether c is an ASCII digit.
func IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// IsUpper reports whether c is an ASCII upper-case letter.
func IsUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

// ToUpper folds ASCII lower case to upper case and leaves every other byte
// alone. Casing is culture-invariant by construction.
func ToUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
