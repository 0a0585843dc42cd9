// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
	"github.com/nbutton23/zxcvbn-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pwd-strength/internal/util"
	"pwd-strength/pkg/strength"
)

var (
	evaluateCmd = &cobra.Command{
		Use:   "evaluate [PASSWORD]",
		Short: "Evaluate the strength of a password",
		Args: func(cmd *cobra.Command, args []string) error {
			if !interactive {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			util.ApplyCliSettings(verbose, profile, pprofPort)

			locale, err := lookupLocale(localeName)
			if err != nil {
				return err
			}

			evaluator, err := evaluatorFor(cmd.Context(), denylistSource)
			if err != nil {
				return err
			}

			if interactive {
				return runInteractiveSession(evaluator, locale, cmd.OutOrStdout())
			}
			return evaluateOne(evaluator, locale, args[0], cmd.OutOrStdout())
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	evaluateCmd.Flags().StringVarP(&denylistSource, "denylist", "d", "", "Password list or .gcs file of compromised passwords")
	evaluateCmd.Flags().StringVarP(&localeName, "locale", "l", "es", "Language of the output")
	evaluateCmd.Flags().BoolVarP(&interactive, "interactive", "n", false, "Interactive mode, the password is read from a masked prompt")
	evaluateCmd.Flags().BoolVar(&showZxcvbn, "zxcvbn", false, "Also log the zxcvbn score of the password, for comparison only")

	rootCmd.AddCommand(evaluateCmd)
}

func evaluateOne(evaluator *strength.Evaluator, locale *strength.Locale, password string, out io.Writer) error {
	resp := locale.Render(evaluator.Evaluate(password))

	raw, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintln(out, string(raw)); err != nil {
		return err
	}

	if showZxcvbn {
		match := zxcvbn.PasswordStrength(password, nil)
		log.Info().Msgf("zxcvbn: score %d of 4, %.2f bits, crack time %s",
			match.Score, match.Entropy, match.CrackTimeDisplay)
	}

	return nil
}

func runInteractiveSession(evaluator *strength.Evaluator, locale *strength.Locale, out io.Writer) error {
	prompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
		Validate: func(input string) error {
			if len(input) == 0 {
				return errors.New("please enter a password")
			}
			return nil
		},
	}

	log.Info().Msg("running interactive session. ^C to exit")
	for {
		password, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				log.Info().Msg("goodbye")
				return nil
			}
			log.Error().Err(err).Msg("error during interactive session")
			// No error to avoid the default cobra error message
			return nil
		}

		if err = evaluateOne(evaluator, locale, password, out); err != nil {
			log.Error().Err(err).Msg("error writing evaluation")
		}
	}
}
