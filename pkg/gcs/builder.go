// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package gcs

import (
	"errors"
	"io"
	"runtime"
	"sync"

	"github.com/jfcg/sorty/v2"
	"github.com/rs/zerolog/log"
)

// https://github.com/rasky/gcs
// https://github.com/Freaky/gcstool
// https://giovanni.bajo.it/post/47119962313/golomb-coded-sets-smaller-than-bloom-filters

// Builder writes a GCS file for a list of passwords.
type Builder struct {
	passwords        []string
	out              io.Writer
	probability      uint64
	indexGranularity uint64
	values           []uint64
	stat             *status
}

// NewBuilder creates a builder for a new GCS database.
//
// probability is the false positive rate for queries, 1-in-p.
// indexGranularity is the entries per index point (16 bytes each).
func NewBuilder(passwords []string, out io.Writer, probability uint64, indexGranularity uint64) *Builder {
	return &Builder{
		passwords:        passwords,
		out:              out,
		probability:      probability,
		indexGranularity: indexGranularity,
		values:           make([]uint64, len(passwords)),
	}
}

// Process hashes every password and writes the encoded set, index and footer.
func (b *Builder) Process() error {
	if len(b.passwords) == 0 {
		return errors.New("cannot build a GCS without passwords")
	}
	if b.probability < 2 {
		return errors.New("false positive rate must be at least 2")
	}

	b.stat = newStatus()
	b.stat.StageWork("Hash", uint64(len(b.passwords)))

	// Each worker hashes its own chunk straight into b.values, no locking needed.
	workers := runtime.NumCPU()
	chunk := (len(b.passwords) + workers - 1) / workers
	wg := sync.WaitGroup{}
	for start := 0; start < len(b.passwords); start += chunk {
		end := start + chunk
		if end > len(b.passwords) {
			end = len(b.passwords)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				b.values[i] = Hash(b.passwords[i])
				b.stat.Incr()
			}
		}(start, end)
	}
	wg.Wait()

	if err := b.finalize(); err != nil {
		return err
	}

	b.stat.Done()
	return nil
}

func (b *Builder) finalize() error {
	num := uint64(len(b.values))
	np := num * b.probability
	log.Debug().Msgf("database will have %d items", num)

	// Values live in [1, np] so a zero delta can only be the end marker.
	b.stat.Stage("Normalise")
	for i, v := range b.values {
		b.values[i] = v%np + 1
	}

	b.stat.Stage("Sort")
	sorty.SortSlice(b.values)

	b.stat.Stage("Deduplicate")
	b.values = dedup(b.values)

	var index []indexPair
	if b.indexGranularity > 0 {
		index = make([]indexPair, 0, uint64(len(b.values))/b.indexGranularity)
	}

	writer := newBitWriter(b.out)
	enc := newEncoder(writer, b.probability)
	b.stat.StageWork("Encode", uint64(len(b.values)))

	totalBits := uint64(0)
	last := uint64(0)
	for i, v := range b.values {
		d, err := enc.Encode(v - last)
		if err != nil {
			return err
		}
		totalBits += d
		last = v

		if b.indexGranularity > 0 && uint64(i+1)%b.indexGranularity == 0 {
			index = append(index, indexPair{value: v, bitPos: totalBits})
		}

		b.stat.Incr()
	}

	// delimiting zero
	d, err := enc.Encode(0)
	if err != nil {
		return err
	}
	totalBits += d

	padding, err := writer.Flush()
	if err != nil {
		return err
	}

	endOfData := (totalBits + padding) / 8
	log.Debug().Msgf("end of data: %d, index will have %d items", endOfData, len(index))
	b.stat.Stage("Write Index")

	for _, pair := range index {
		if _, err = b.out.Write(toFixedBytes(pair.value)); err != nil {
			return err
		}
		if _, err = b.out.Write(toFixedBytes(pair.bitPos)); err != nil {
			return err
		}
	}

	footer := [][]byte{
		toFixedBytes(num),
		toFixedBytes(b.probability),
		toFixedBytes(endOfData),
		toFixedBytes(uint64(len(index))),
		[]byte(gcsMagic),
	}
	for _, part := range footer {
		if _, err = b.out.Write(part); err != nil {
			return err
		}
	}

	return nil
}
