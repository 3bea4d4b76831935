// Package checksum computes the HMRC check digits for UK VAT registration
// numbers.
//
// Both algorithms start from the weighted remainder of the 7-digit main
// number: each digit, most significant first, is multiplied by 8,7,6,5,4,3,2
// and the total taken mod 97.
package checksum

// MaxMain is the largest 7-digit main number.
const MaxMain = 9_999_999

var weights = [7]uint32{8, 7, 6, 5, 4, 3, 2}

// WeightedRemainder returns the weighted digit sum of main mod 97.
func WeightedRemainder(main uint32) uint32 {
	var total uint32
	for i := len(weights) - 1; i >= 0; i-- {
		total += (main % 10) * weights[i]
		main /= 10
	}
	return total % 97
}

// Mod97 returns the traditional check digits: 97 minus the remainder,
// reduced mod 97 so a zero remainder yields 00.
func Mod97(main uint32) uint32 {
	return (97 - WeightedRemainder(main)) % 97
}

// Mod9755 returns the check digits of the "97-55" scheme HMRC introduced
// for newer registrations.
func Mod9755(main uint32) uint32 {
	r := int32(WeightedRemainder(main))
	var check int32
	if r > 55 {
		check = 97 - r + 55
	} else {
		check = 42 - r
	}
	if check <= 0 {
		check += 97
	}
	return uint32(check)
}

// Compute returns the check digits for main under the selected scheme.
func Compute(main uint32, alt bool) uint32 {
	if alt {
		return Mod9755(main)
	}
	return Mod97(main)
}

// Verify reports whether check matches main under either scheme. alt is set
// when the 97-55 scheme matched. The two schemes never agree on the same
// main number, so at most one can match.
func Verify(main, check uint32) (alt bool, ok bool) {
	switch check {
	case Mod97(main):
		return false, true
	case Mod9755(main):
		return true, true
	}
	return false, false
}

// ValidMain reports whether main is a 7-digit number outside the reserved
// 00 prefix block.
func ValidMain(main uint32) bool {
	return main <= MaxMain && main/100_000 != 0
}
