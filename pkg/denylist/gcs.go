// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package denylist

import (
	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog/log"

	"pwd-strength/pkg/gcs"
)

// GCS is a denylist backed by a Golomb Coded Set file. Lookups have the false
// positive rate the file was built with.
type GCS struct {
	reader *gcs.Reader
	cache  *ristretto.Cache
}

// OpenGCS loads the index of a GCS file. cacheSize bounds how many lookup answers are
// remembered; zero disables the cache.
func OpenGCS(fileName string, cacheSize int64) (*GCS, error) {
	reader := gcs.NewReader(fileName)
	if err := reader.Initialize(); err != nil {
		return nil, err
	}

	g := &GCS{reader: reader}
	if cacheSize > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: cacheSize * 10,
			MaxCost:     cacheSize,
			BufferItems: 64,
		})
		if err != nil {
			return nil, err
		}
		g.cache = cache
	}

	return g, nil
}

// IsCommon reports whether password is (probably) in the file. Read errors are
// logged and answered as false so an evaluation never fails.
func (g *GCS) IsCommon(password string) bool {
	hash := gcs.Hash(password)

	if g.cache != nil {
		if v, ok := g.cache.Get(hash); ok {
			return v.(bool)
		}
	}

	exists, err := g.reader.Exists(hash)
	if err != nil {
		log.Error().Err(err).Msg("error querying GCS denylist")
		return false
	}

	if g.cache != nil {
		g.cache.Set(hash, exists, 1)
	}

	return exists
}

// Len is the number of passwords the file was built from, duplicates included. Unlike
// Set.Len it is not a count of distinct entries.
func (g *GCS) Len() int {
	return int(g.reader.Len())
}

// FalsePositiveRate is p, the file reports 1 in p unknown passwords as common.
func (g *GCS) FalsePositiveRate() uint64 {
	return g.reader.Probability()
}

// Close releases the cache.
func (g *GCS) Close() {
	if g.cache != nil {
		g.cache.Close()
	}
}
