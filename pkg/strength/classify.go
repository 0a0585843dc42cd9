// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

// Category is the strength bucket of an entropy value.
type Category int

const (
	Weak Category = iota
	Strong
	VeryStrong
)

const (
	strongThreshold     = 60
	veryStrongThreshold = 80
)

func (c Category) String() string {
	switch c {
	case Weak:
		return "weak"
	case Strong:
		return "strong"
	case VeryStrong:
		return "very-strong"
	default:
		return "unknown"
	}
}

// Classify maps entropy bits to a Category. Lower bounds are inclusive.
func Classify(entropy float64) Category {
	switch {
	case entropy < strongThreshold:
		return Weak
	case entropy < veryStrongThreshold:
		return Strong
	default:
		return VeryStrong
	}
}
