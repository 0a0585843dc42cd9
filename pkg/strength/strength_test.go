// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	cases := []struct {
		password string
		want     CharsetProfile
		size     int
	}{
		{"", CharsetProfile{}, 0},
		{"abc", CharsetProfile{Lower: true}, 26},
		{"ABC", CharsetProfile{Upper: true}, 26},
		{"123", CharsetProfile{Digit: true}, 10},
		{"!@#", CharsetProfile{Symbol: true}, 32},
		{"aZ", CharsetProfile{Lower: true, Upper: true}, 52},
		{"Tr0ub4dor&3", CharsetProfile{Lower: true, Upper: true, Digit: true, Symbol: true}, 94},
		// non ASCII letters fall in the symbol class
		{"ñandú", CharsetProfile{Lower: true, Symbol: true}, 58},
		{"pass word", CharsetProfile{Lower: true, Symbol: true}, 58},
	}

	for _, tc := range cases {
		got := Analyze(tc.password)
		assert.Equal(t, tc.want, got, "Analyze(%q)", tc.password)
		assert.Equal(t, tc.size, got.Size(), "Analyze(%q).Size()", tc.password)
	}
}

func TestAnalyze_ClassCountedOnce(t *testing.T) {
	assert.Equal(t, Analyze("a").Size(), Analyze("abcdefghijklmnopqrstuvwxyz").Size())
}

func TestLength(t *testing.T) {
	assert.Equal(t, 0, Length(""))
	assert.Equal(t, 8, Length("password"))
	assert.Equal(t, 5, Length("ñandú"))
	// outside the BMP counts as a surrogate pair
	assert.Equal(t, 2, Length("😀"))
	// combining marks are not merged with their base
	assert.Equal(t, 2, Length("é"))
}

func TestEntropy(t *testing.T) {
	cases := []struct {
		password string
		want     float64
	}{
		{"", 0},
		{"a", math.Log2(26)},
		{"aaaaaaaaaaaa", 12 * math.Log2(26)},
		{"Tr0ub4dor&3", 11 * math.Log2(94)},
		{"!!!!", 4 * math.Log2(32)},
		{"0000000000", 10 * math.Log2(10)},
	}

	for _, tc := range cases {
		assert.InDelta(t, tc.want, Entropy(tc.password), 1e-9, "Entropy(%q)", tc.password)
	}
}

func TestEntropy_Monotonic(t *testing.T) {
	assert.Less(t, Entropy("aaaa"), Entropy("aaaaaaaa"))
	assert.GreaterOrEqual(t, Entropy("aA1!"), Entropy("aaaa"))
	// the heuristic ignores repetition
	assert.Equal(t, Entropy("aaaaaaaa"), Entropy("qwhzkpex"))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		entropy float64
		want    Category
	}{
		{0, Weak},
		{59.99, Weak},
		{60, Strong},
		{79.99, Strong},
		{80, VeryStrong},
		{500, VeryStrong},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.entropy), "Classify(%v)", tc.entropy)
	}
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "weak", Weak.String())
	assert.Equal(t, "strong", Strong.String())
	assert.Equal(t, "very-strong", VeryStrong.String())
	assert.Equal(t, "unknown", Category(42).String())
}

func TestSecondsToCrack(t *testing.T) {
	assert.Equal(t, 1/(2*AttemptsPerSecond), SecondsToCrack(0))
	assert.InDelta(t, 1.0, SecondsToCrack(math.Log2(2*AttemptsPerSecond)), 1e-9)
	assert.InDelta(t, 2531491036.246, SecondsToCrack(11*math.Log2(94)), 1)
	assert.True(t, math.IsInf(SecondsToCrack(2000), 1))
}

func TestSecondsToCrack_HighEntropy(t *testing.T) {
	// integer entropies are exact powers of two
	assert.Equal(t, math.Ldexp(1, 200)/(2*AttemptsPerSecond), SecondsToCrack(200))
	assert.Equal(t, math.Ldexp(1, 512)/(2*AttemptsPerSecond), SecondsToCrack(512))

	// fractional ones stay within a few ulps of the exact value
	for _, entropy := range []float64{28 * math.Log2(26), 30 * math.Log2(94), 100 * math.Log2(62)} {
		assert.InEpsilon(t, math.Exp2(entropy)/(2*AttemptsPerSecond), SecondsToCrack(entropy), 1e-12, "entropy %v", entropy)
	}
}
