// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pwd-strength/internal/ingest"
	"pwd-strength/internal/util"
	"pwd-strength/pkg/gcs"
)

var (
	createCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a GCS denylist database from a password list",
		RunE: func(cmd *cobra.Command, args []string) error {
			util.ApplyCliSettings(verbose, profile, pprofPort)

			passwords, err := ingest.NewLoader(s3FromEnv()).Load(cmd.Context(), inputFile)
			if err != nil {
				return err
			}

			return createCommand(passwords)
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	createCmd.Flags().Uint64VarP(&probability, "false-positive-rate", "p", 16777216, "False positive rate for queries, 1-in-p.")
	createCmd.Flags().Uint64VarP(&indexGranularity, "index-granularity", "g", 1024, "Entries per index point (16 bytes each).")
	createCmd.Flags().StringVarP(&inputFile, "in-file", "i", "", "Password list: file, http(s) URL or s3://bucket/object (required)")
	createCmd.MarkFlagRequired("in-file")
	createCmd.Flags().StringVarP(&outFile, "out-file", "o", "./denylist.gcs", "GCS file output path")
	createCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite any existing files while writing the results.")

	rootCmd.AddCommand(createCmd)
}

func createCommand(passwords []string) error {
	s := util.Stats()
	defer s()

	abs, err := filepath.Abs(outFile)
	if err != nil {
		return fmt.Errorf("could not get absolute path of file: %w", err)
	}

	if !overwrite {
		if _, err = os.Stat(abs); !os.IsNotExist(err) {
			return fmt.Errorf("file %s exists and overwrite flag is not set", outFile)
		}
	}

	// one u64 per password while building
	if err = util.CheckRam(uint64(len(passwords)) * 8); err != nil {
		return err
	}

	// about log2(p) + 2 bits per entry, plus the index
	bitsPerEntry := math.Ceil(math.Log2(float64(probability))) + 2
	estimate := uint64(float64(len(passwords))*bitsPerEntry/8) + 16*uint64(len(passwords))/max(indexGranularity, 1)
	if err = util.CheckDiskSpace(abs, estimate); err != nil {
		return err
	}

	out, err := os.Create(abs)
	if err != nil {
		return err
	}

	defer func(out *os.File) {
		if err := out.Close(); err != nil {
			log.Error().Err(err).Msg("error closing GCS file")
		}
	}(out)

	log.Info().Msg("starting process. This might take a while, be patient :)")
	builder := gcs.NewBuilder(passwords, out, probability, indexGranularity)
	if err = builder.Process(); err != nil {
		return err
	}

	log.Info().Msgf("GCS denylist written to %s", abs)
	return nil
}
