// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import "math"

// Length counts the password in UTF-16 code units, so characters outside the Basic
// Multilingual Plane count twice. No grapheme segmentation is done.
func Length(password string) int {
	l := 0
	for _, r := range password {
		if r > 0xFFFF {
			l += 2
		} else {
			l++
		}
	}

	return l
}

// Entropy estimates the bit strength of password as L * log2(N), assuming it was drawn
// uniformly from the whole keyspace of its detected classes.
func Entropy(password string) float64 {
	l := Length(password)
	n := Analyze(password).Size()

	if l == 0 || n < 2 {
		return 0
	}

	return float64(l) * math.Log2(float64(n))
}
