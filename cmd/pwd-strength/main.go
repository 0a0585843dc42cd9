// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package main

import (
	_ "net/http/pprof"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pwd-strength/internal/cli"
)

func main() {
	// stdout is reserved for command output
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
