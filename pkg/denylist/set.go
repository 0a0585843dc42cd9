// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package denylist holds the known compromised passwords an evaluation is checked
// against.
package denylist

// Set is an immutable exact-match denylist.
type Set struct {
	passwords map[string]struct{}
}

// New builds a Set from passwords. Matching is case-sensitive and no normalization is
// applied here; loaders trim their input before calling it.
func New(passwords []string) *Set {
	s := &Set{passwords: make(map[string]struct{}, len(passwords))}
	for _, p := range passwords {
		s.passwords[p] = struct{}{}
	}

	return s
}

// IsCommon reports whether password is in the set.
func (s *Set) IsCommon(password string) bool {
	_, ok := s.passwords[password]
	return ok
}

// Len is the number of distinct passwords in the set.
func (s *Set) Len() int {
	return len(s.passwords)
}
