// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

// Fixed alphabet sizes assumed for each character class.
const (
	lowerSize  = 26
	upperSize  = 26
	digitSize  = 10
	symbolSize = 32
)

// CharsetProfile records which character classes appear at least once in a password.
type CharsetProfile struct {
	Lower  bool
	Upper  bool
	Digit  bool
	Symbol bool
}

// Analyze detects the character classes of password. Anything that is not an ASCII
// letter or digit is counted as a symbol.
func Analyze(password string) CharsetProfile {
	var p CharsetProfile
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			p.Lower = true
		case r >= 'A' && r <= 'Z':
			p.Upper = true
		case r >= '0' && r <= '9':
			p.Digit = true
		default:
			p.Symbol = true
		}
	}

	return p
}

// Size is the keyspace N: the sum of the sizes of the classes present, each counted once.
func (p CharsetProfile) Size() int {
	n := 0
	if p.Lower {
		n += lowerSize
	}
	if p.Upper {
		n += upperSize
	}
	if p.Digit {
		n += digitSize
	}
	if p.Symbol {
		n += symbolSize
	}

	return n
}
