// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import "math"

// AttemptsPerSecond is the assumed attacker throughput.
const AttemptsPerSecond = 1e12

// SecondsToCrack is the average time to find a password of the given entropy by
// uniform random search: half the keyspace at AttemptsPerSecond.
//
// For fractional entropies math.Pow and math.Log2 can differ from other runtimes by
// one ulp, so huge counts rendered in exponent form may differ in the last mantissa
// digit. Integer entropies are exact.
func SecondsToCrack(entropy float64) float64 {
	combinations := math.Pow(2, entropy)
	return combinations / (2 * AttemptsPerSecond)
}
