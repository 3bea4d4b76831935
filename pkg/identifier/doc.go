// Package identifier provides validated, immutable value types for UK
// identifiers: postal codes, national insurance numbers, company
// registration numbers and VAT registration numbers.
//
// Each type is a small fixed-size byte array holding a bit-packed form of
// the identifier. Values are comparable with ==, hash from their packed
// bytes, and convert losslessly to an unsigned integer ("compact form") for
// storage:
//
//	pc, err := identifier.ParsePostalCode("sw1a 0aa")
//	pc.String()           // "SW1A0AA"
//	pc.FormatAs("S")      // "SW1A 0AA"
//	identifier.PostalCodeFromCompact(pc.Compact()) == pc
//
// Parsing ignores whitespace and ASCII letter case. A failed parse returns
// the zero value and an error matching ErrFormat. FromCompact constructors
// do not re-validate and must only be fed values produced by Compact.
package identifier
