// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package util

import (
	"fmt"
	"net/http"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

const mib = 1024 * 1024

// Stats returns a func that logs the memory statistics of the process at debug level.
// Meant to be deferred.
func Stats() func() {
	return func() {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		log.Debug().Msgf("Alloc: %d MB, TotalAlloc: %d MB, Sys: %d MB",
			ms.Alloc/mib, ms.TotalAlloc/mib, ms.Sys/mib)
		log.Debug().Msgf("Mallocs: %d, Frees: %d, GC: %d", ms.Mallocs, ms.Frees, ms.NumGC)
		log.Debug().Msgf("HeapAlloc: %d MB, HeapSys: %d MB, HeapIdle: %d MB, HeapObjects: %d",
			ms.HeapAlloc/mib, ms.HeapSys/mib, ms.HeapIdle/mib, ms.HeapObjects)
	}
}

// ApplyCliSettings sets the log level and starts the pprof server when asked to.
// The pprof handlers are registered by importing net/http/pprof in main.
func ApplyCliSettings(verbose bool, profile bool, pprofPort uint16) {
	if verbose {
		log.Warn().Msg("verbosity up")
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if profile {
		log.Info().Msgf("profiling is enabled for this session. Server will listen on port %d", pprofPort)
		go func() {
			if err := http.ListenAndServe(fmt.Sprintf("localhost:%d", pprofPort), nil); err != nil {
				log.Error().Err(err).Msgf("error starting profiling server on port %d", pprofPort)
			}
		}()
	}
}

// CheckRam fails when the system cannot hold the given number of bytes in memory.
func CheckRam(required uint64) error {
	memStat, err := mem.VirtualMemory()
	if err != nil {
		log.Warn().Msgf("could not read system memory, this process needs about %d MiB", required/mib)
		return nil
	}

	log.Debug().Msgf("system has %.2f MiB of RAM available, %.2f MiB needed",
		float64(memStat.Available)/mib, float64(required)/mib)
	if required > memStat.Available {
		return fmt.Errorf("system does not have the %d MiB of RAM required for this process", required/mib)
	}

	return nil
}

// CheckDiskSpace fails when the partition that will hold fileName has less than
// required bytes free.
func CheckDiskSpace(fileName string, required uint64) error {
	abs, err := filepath.Abs(fileName)
	if err != nil {
		return err
	}

	usage, err := disk.Usage(filepath.Dir(abs))
	if err != nil {
		log.Debug().Err(err).Msg("error getting current storage sizes")
		return nil
	}

	log.Debug().Msgf("%s has %.2f MiB free", usage.Path, float64(usage.Free)/mib)
	if required > usage.Free {
		return fmt.Errorf("%s does not have the %d MiB free required for the output", usage.Path, required/mib)
	}

	return nil
}

// ToScreamingSnakeCase turns Go identifiers into env var style names, e.g.
// TLSCert into TLS_CERT. Space separated lists are converted item by item.
func ToScreamingSnakeCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = screamingSnake(w)
	}
	return strings.Join(words, " ")
}

func screamingSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
