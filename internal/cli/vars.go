// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

var (
	// root
	verbose bool
	// root
	profile bool
	// root
	pprofPort uint16
	// create, batch
	inputFile string
	// create
	outFile string
	// batch
	resultsFile string
	// create
	probability uint64
	// create
	indexGranularity uint64
	// create, batch
	overwrite bool
	// evaluate, batch
	denylistSource string
	// evaluate, batch
	localeName string
	// evaluate
	interactive bool
	// evaluate
	showZxcvbn bool
	// batch
	threads int
)
