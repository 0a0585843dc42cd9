// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package gcs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrNotGCS = errors.New("not a GCS file")

// Reader answers membership queries against a GCS file. Only the index is kept in
// memory.
type Reader struct {
	fileName    string
	num         uint64
	probability uint64
	endOfData   uint64
	index       []indexPair
	log2p       uint8
}

func NewReader(fileName string) *Reader {
	return &Reader{fileName: fileName}
}

// Initialize reads the footer and loads the index.
func (r *Reader) Initialize() error {
	file, err := os.Open(r.fileName)
	if err != nil {
		return err
	}

	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			log.Error().Err(err).Msg("error closing GCS file")
		}
	}(file)

	if _, err = file.Seek(-footerLen, io.SeekEnd); err != nil {
		return fmt.Errorf("%w: %s", ErrNotGCS, err)
	}

	footer := make([]byte, footerLen)
	if _, err = io.ReadFull(file, footer); err != nil {
		return err
	}

	if string(footer[32:]) != gcsMagic {
		return ErrNotGCS
	}

	r.num = binary.BigEndian.Uint64(footer[0:8])
	r.probability = binary.BigEndian.Uint64(footer[8:16])
	r.endOfData = binary.BigEndian.Uint64(footer[16:24])
	indexLen := binary.BigEndian.Uint64(footer[24:32])
	r.log2p = log2(r.probability)
	log.Debug().Msgf("items: %d, probability: %d, end of data: %d, index length: %d",
		r.num, r.probability, r.endOfData, indexLen)

	if _, err = file.Seek(int64(r.endOfData), io.SeekStart); err != nil {
		return err
	}

	raw := make([]byte, indexLen*16)
	if _, err = io.ReadFull(file, raw); err != nil {
		return err
	}

	// the sentinel lets every lookup start from some entry
	r.index = make([]indexPair, 0, 1+indexLen)
	r.index = append(r.index, indexPair{0, 0})
	for i := uint64(0); i < indexLen; i++ {
		r.index = append(r.index, indexPair{
			value:  binary.BigEndian.Uint64(raw[i*16:]),
			bitPos: binary.BigEndian.Uint64(raw[i*16+8:]),
		})
	}

	p := message.NewPrinter(language.English)
	log.Info().Msgf("ready for queries on %s items with a 1 in %s false-positive rate",
		p.Sprintf("%d", r.num), p.Sprintf("%d", r.probability))
	return nil
}

// Len is the number of passwords the file was built from.
func (r *Reader) Len() uint64 {
	return r.num
}

// Probability is the 1-in-p false positive rate the file was built with.
func (r *Reader) Probability() uint64 {
	return r.probability
}

// Exists reports whether the hash is (probably) in the set.
func (r *Reader) Exists(hash uint64) (bool, error) {
	if r.num == 0 {
		return false, nil
	}

	h := hash%(r.num*r.probability) + 1

	// closest index entry at or before h
	i := sort.Search(len(r.index), func(i int) bool { return r.index[i].value > h })
	entry := r.index[i-1]
	if entry.value == h {
		return true, nil
	}

	// A file handle per query keeps concurrent lookups from contending on one offset.
	file, err := os.Open(r.fileName)
	if err != nil {
		return false, err
	}

	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			log.Error().Err(err).Msg("error closing GCS file")
		}
	}(file)

	reader := newBitReader(file)
	if err = reader.SeekBit(entry.bitPos); err != nil {
		return false, err
	}

	last := entry.value
	for last < h {
		diff, err := decode(reader, r.probability, r.log2p)
		if err != nil {
			return false, err
		}
		if diff == 0 {
			break
		}
		last += diff
	}

	return last == h, nil
}
