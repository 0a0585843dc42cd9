// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package ingest reads bulk password lists into memory so a denylist can be built
// from them.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// S3Config locates the object storage used by s3:// sources.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
}

// Loader fetches password lists from local files, http(s) URLs or s3:// objects.
type Loader struct {
	http *retryablehttp.Client
	s3   S3Config
}

func NewLoader(s3 S3Config) *Loader {
	return &Loader{http: initHttpClient(), s3: s3}
}

func initHttpClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	// retryablehttp logs every attempt through its own logger
	client.Logger = nil
	client.RetryMax = 5
	client.HTTPClient.Timeout = 5 * time.Minute

	return client
}

// Load reads every password from source.
func (l *Loader) Load(ctx context.Context, source string) ([]string, error) {
	timer := time.Now()

	r, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}

	defer func(r io.ReadCloser) {
		if err := r.Close(); err != nil {
			log.Warn().Err(err).Msgf("error closing password source %s", source)
		}
	}(r)

	passwords, err := ReadPasswords(r)
	if err != nil {
		return nil, fmt.Errorf("error reading password source %s: %w", source, err)
	}

	p := message.NewPrinter(language.English)
	log.Info().Msgf("read %s passwords from %s in %v", p.Sprintf("%d", len(passwords)), source, time.Since(timer))
	return passwords, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// plain paths, including windows drive letters
		return os.Open(source)
	}

	switch u.Scheme {
	case "file":
		return os.Open(u.Path)
	case "http", "https":
		return l.openHttp(ctx, source)
	case "s3":
		return l.openS3(ctx, u)
	default:
		return nil, fmt.Errorf("unsupported password source scheme %q", u.Scheme)
	}
}

func (l *Loader) openHttp(ctx context.Context, source string) (io.ReadCloser, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "pwd-strength/1.0")

	res, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode >= 400 {
		_ = res.Body.Close()
		return nil, fmt.Errorf("request for %s failed with status %s", source, res.Status)
	}

	return res.Body, nil
}

// ReadPasswords parses a password list. Rows are either "rank,password" CSV records or
// a single password per line. Values are trimmed and empty ones dropped.
func ReadPasswords(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	passwords := make([]string, 0, 1024)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		var password string
		switch len(record) {
		case 0:
			continue
		case 1:
			password = record[0]
		default:
			password = record[1]
		}

		if password = strings.TrimSpace(password); password != "" {
			passwords = append(passwords, password)
		}
	}

	return passwords, nil
}
