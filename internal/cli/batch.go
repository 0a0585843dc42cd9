// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/thinhdanggroup/executor"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"pwd-strength/internal/util"
	"pwd-strength/pkg/strength"
)

var (
	batchCmd = &cobra.Command{
		Use:   "batch",
		Short: "Evaluate every password of a file, one per line, into a JSON lines file",
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

			return batchCommand(evaluator, locale)
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	batchCmd.Flags().StringVarP(&inputFile, "in-file", "i", "", "File with one password per line (required)")
	batchCmd.MarkFlagRequired("in-file")
	batchCmd.Flags().StringVarP(&resultsFile, "out-file", "o", "./evaluations.jsonl", "Output file path. Can be absolute or relative.")
	batchCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite any existing files while writing the results.")
	batchCmd.Flags().StringVarP(&denylistSource, "denylist", "d", "", "Password list or .gcs file of compromised passwords")
	batchCmd.Flags().StringVarP(&localeName, "locale", "l", "es", "Language of the output")
	batchCmd.Flags().IntVarP(&threads, "threads", "t", 0, "Number of workers. If omitted or less than 1, defaults to the number of logical processors of the machine.")

	rootCmd.AddCommand(batchCmd)
}

// maxLineSize bounds a single input line.
const maxLineSize = 1024 * 1024

// evaluation is one line of the batch output. The password itself is never written.
type evaluation struct {
	Line   int                `json:"line"`
	Result strength.Response `json:"result"`
}

// batchWriter serializes concurrent writes so lines are never interleaved.
type batchWriter struct {
	mu      sync.Mutex
	encoder *json.Encoder
	written int
	err     error
}

func (w *batchWriter) write(e evaluation) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.err != nil {
		return
	}
	if w.err = w.encoder.Encode(e); w.err == nil {
		w.written++
	}
}

func batchCommand(evaluator *strength.Evaluator, locale *strength.Locale) error {
	in, err := os.Open(inputFile)
	if err != nil {
		return err
	}

	defer func(in *os.File) {
		if err := in.Close(); err != nil {
			log.Error().Err(err).Msg("error closing input file")
		}
	}(in)

	abs, err := filepath.Abs(resultsFile)
	if err != nil {
		return fmt.Errorf("could not get absolute path of file: %w", err)
	}

	if !overwrite {
		if _, err = os.Stat(abs); err == nil {
			return fmt.Errorf("file %s exists and overwrite flag is not set", abs)
		}
	}

	out, err := os.Create(abs)
	if err != nil {
		return err
	}

	defer func(out *os.File) {
		if err := out.Close(); err != nil {
			log.Error().Err(err).Msg("error closing output file")
		}
	}(out)

	written, err := evaluateAll(evaluator, locale, in, out, threads)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	log.Info().Msgf("wrote %s evaluations to %s", p.Sprintf("%d", written), abs)
	return nil
}

// evaluateAll evaluates every non-empty line of in on a bounded worker pool and writes
// the results to out, in completion order.
func evaluateAll(evaluator *strength.Evaluator, locale *strength.Locale, in io.Reader, out io.Writer, workers int) (int, error) {
	s := util.Stats()
	defer s()

	if workers < 1 {
		workers = runtime.NumCPU()
	}

	pool, err := executor.New(executor.Config{
		ReqPerSeconds: 0,
		QueueSize:     2 * workers,
		NumWorkers:    workers,
	})
	if err != nil {
		return 0, err
	}
	defer pool.Close()

	buffered := bufio.NewWriter(out)
	writer := &batchWriter{encoder: json.NewEncoder(buffered)}
	task := func(line int, password string) {
		writer.write(evaluation{Line: line, Result: locale.Render(evaluator.Evaluate(password))})
	}

	timer := time.Now()
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		// CRLF files keep the \r, it is not part of the password
		password := strings.TrimSuffix(scanner.Text(), "\r")
		if password == "" {
			continue
		}

		if err = pool.Publish(task, line, password); err != nil {
			return 0, err
		}
	}
	pool.Wait()

	if err = scanner.Err(); err != nil {
		return writer.written, err
	}
	if writer.err != nil {
		return writer.written, writer.err
	}
	if err = buffered.Flush(); err != nil {
		return writer.written, err
	}

	log.Debug().Msgf("evaluated %d lines in %v", line, time.Since(timer))
	return writer.written, nil
}
