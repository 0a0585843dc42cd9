// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"pwd-strength/internal/ingest"
	"pwd-strength/pkg/denylist"
	"pwd-strength/pkg/strength"
)

type sizedDenylist interface {
	strength.Denylist
	Len() int
}

// loadDenylist builds the denylist for source. Local files ending in .gcs are opened
// as GCS databases, anything else is read as a password list.
func loadDenylist(ctx context.Context, source string, cacheSize int64, s3 ingest.S3Config) (sizedDenylist, error) {
	if strings.EqualFold(filepath.Ext(source), ".gcs") && !strings.Contains(source, "://") {
		g, err := denylist.OpenGCS(source, cacheSize)
		if err != nil {
			return nil, fmt.Errorf("error opening GCS denylist %s: %w", source, err)
		}
		log.Warn().Msgf("denylist %s is probabilistic: about 1 in %d passwords not on the list will also be reported as common",
			source, g.FalsePositiveRate())
		return g, nil
	}

	passwords, err := ingest.NewLoader(s3).Load(ctx, source)
	if err != nil {
		return nil, err
	}
	if len(passwords) == 0 {
		return nil, errors.New("denylist source has no passwords")
	}

	set := denylist.New(passwords)
	p := message.NewPrinter(language.English)
	log.Info().Msgf("denylist loaded with %s passwords", p.Sprintf("%d", set.Len()))
	return set, nil
}

// evaluatorFor builds an evaluator with the optional denylist of a one-off command.
func evaluatorFor(ctx context.Context, source string) (*strength.Evaluator, error) {
	if source == "" {
		log.Warn().Msg("no denylist given, compromised passwords will not be detected")
		return strength.NewEvaluator(nil), nil
	}

	d, err := loadDenylist(ctx, source, 0, s3FromEnv())
	if err != nil {
		return nil, err
	}
	return strength.NewEvaluator(d), nil
}

func lookupLocale(name string) (*strength.Locale, error) {
	l, ok := strength.LookupLocale(name)
	if !ok {
		return nil, fmt.Errorf("unsupported locale %q", name)
	}
	return l, nil
}

// s3FromEnv reads the object storage settings for commands that do not load the full
// server configuration.
func s3FromEnv() ingest.S3Config {
	v := viper.New()
	v.AutomaticEnv()
	return ingest.S3Config{
		Endpoint:  v.GetString("S3_ENDPOINT"),
		AccessKey: v.GetString("S3_ACCESS_KEY"),
		SecretKey: v.GetString("S3_SECRET_KEY"),
		Secure:    v.GetBool("S3_SECURE"),
	}
}
