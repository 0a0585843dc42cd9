// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import "math"

// MaskedPassword replaces the real password in every response.
const MaskedPassword = "••••••••"

// Denylist reports whether a password is a known compromised one.
type Denylist interface {
	IsCommon(password string) bool
}

// Result is the locale independent outcome of an evaluation.
type Result struct {
	Compromised bool
	// Entropy in bits, rounded to 2 decimals.
	Entropy  float64
	Category Category
	// Seconds is the estimated average time to crack.
	Seconds float64
}

// Response is the JSON shape served to clients.
type Response struct {
	Password  string  `json:"password"`
	IsValid   bool    `json:"isValid"`
	Reason    string  `json:"reason,omitempty"`
	Entropy   float64 `json:"entropy"`
	Strength  string  `json:"strength"`
	CrackTime string  `json:"crackTime"`
}

// Evaluator scores passwords. It is safe for concurrent use as long as the denylist
// is not modified after construction.
type Evaluator struct {
	denylist Denylist
}

// NewEvaluator creates an Evaluator backed by denylist. A nil denylist disables the
// compromised password check.
func NewEvaluator(denylist Denylist) *Evaluator {
	return &Evaluator{denylist: denylist}
}

// Evaluate scores password. It never fails, whatever the input.
func (e *Evaluator) Evaluate(password string) Result {
	if e.denylist != nil && e.denylist.IsCommon(password) {
		return Result{Compromised: true, Category: Weak}
	}

	entropy := Entropy(password)

	return Result{
		Entropy:  math.Round(entropy*100) / 100,
		Category: Classify(entropy),
		Seconds:  SecondsToCrack(entropy),
	}
}
