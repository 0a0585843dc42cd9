// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package gcs

import "math"

// encoder writes Golomb-Rice codes: the quotient in unary (ones ended by a zero) and
// the remainder in log2p bits.
type encoder struct {
	inner       *bitWriter
	probability uint64
	log2p       uint8
}

func newEncoder(w *bitWriter, probability uint64) *encoder {
	return &encoder{inner: w, probability: probability, log2p: log2(probability)}
}

func log2(p uint64) uint8 {
	return uint8(math.Ceil(math.Log2(float64(p))))
}

// Encode writes value and returns the number of bits used.
func (e *encoder) Encode(value uint64) (uint64, error) {
	q := value / e.probability
	r := value % e.probability

	for left := q; left > 0; {
		run := left
		if run > 64 {
			run = 64
		}
		if err := e.inner.WriteBits(uint8(run), math.MaxUint64); err != nil {
			return 0, err
		}
		left -= run
	}

	if err := e.inner.WriteBits(1, 0); err != nil {
		return 0, err
	}

	if err := e.inner.WriteBits(e.log2p, r); err != nil {
		return 0, err
	}

	return q + 1 + uint64(e.log2p), nil
}

// decode reads one value written by encoder.Encode.
func decode(r *bitReader, probability uint64, log2p uint8) (uint64, error) {
	value := uint64(0)
	for {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			break
		}
		value += probability
	}

	rem, err := r.ReadBits(log2p)
	if err != nil {
		return 0, err
	}

	return value + rem, nil
}
