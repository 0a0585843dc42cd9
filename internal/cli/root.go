// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "pwdstrength [COMMAND] [OPTIONS]",
		Short: "Estimate the strength and crack time of passwords",
		Long: "Score passwords by their estimated entropy, check them against a list of known " +
			"compromised passwords and estimate how long a brute force attack would take. " +
			"This command also serves the evaluation API and builds compact GCS (Golomb Coded Set) denylists",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print more information on the processing")
	rootCmd.PersistentFlags().BoolVar(&profile, "profile", false, "Enable the profiling server (pprof) when running commands")
	rootCmd.PersistentFlags().Uint16Var(&pprofPort, "profile-port", 6060, "The port to use for the pprof server. Only used if the profile flag is set")
}

func Execute() error {
	return rootCmd.Execute()
}
