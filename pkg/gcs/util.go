// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package gcs

import (
	"crypto/sha1"
	"encoding/binary"
)

const gcsMagic = "[GCS:v0]"

// footerLen is n, p, endOfData, indexLen and the magic, 8 bytes each.
const footerLen = 40

type indexPair struct {
	value  uint64
	bitPos uint64
}

// Hash is the 64-bit key of a password: the first 8 bytes of its SHA1, big-endian.
func Hash(password string) uint64 {
	sum := sha1.Sum([]byte(password))
	return binary.BigEndian.Uint64(sum[:8])
}

func toFixedBytes(content uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, content)
	return buf
}

// dedup removes adjacent duplicates from a sorted slice in place.
func dedup(slice []uint64) []uint64 {
	if len(slice) < 2 {
		return slice
	}

	e := 1
	for i := 1; i < len(slice); i++ {
		if slice[i] == slice[i-1] {
			continue
		}
		slice[e] = slice[i]
		e++
	}

	return slice[:e]
}
