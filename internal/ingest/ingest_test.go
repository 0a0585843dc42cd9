// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCsv = "1,123456\n2,password\n3, qwerty \n4,\n5,\"quoted,pass\"\n6,pass\"word\n"

func TestReadPasswords(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"csv", sampleCsv, []string{"123456", "password", "qwerty", "quoted,pass", "pass\"word"}},
		{"plain", "letmein\n\n  dragon\nmonkey\n", []string{"letmein", "dragon", "monkey"}},
		{"header row is data", "rank,password\n1,abc123\n", []string{"password", "abc123"}},
		{"ragged", "1,abc,extra\nsolo\n", []string{"abc", "solo"}},
		{"empty", "", []string{}},
	}

	for _, tc := range cases {
		got, err := ReadPasswords(strings.NewReader(tc.input))
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func testLoader() *Loader {
	l := NewLoader(S3Config{})
	l.http.RetryMax = 0
	return l
}

func TestLoader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passwords.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCsv), 0o600))

	got, err := testLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, got, 5)

	got, err = testLoader().Load(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Len(t, got, 5)

	_, err = testLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestLoader_Http(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/passwords.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleCsv))
	}))
	defer srv.Close()

	got, err := testLoader().Load(context.Background(), srv.URL+"/passwords.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"123456", "password", "qwerty", "quoted,pass", "pass\"word"}, got)

	_, err = testLoader().Load(context.Background(), srv.URL+"/missing.csv")
	assert.Error(t, err)
}

func TestLoader_Unsupported(t *testing.T) {
	_, err := testLoader().Load(context.Background(), "ftp://example.com/passwords.csv")
	assert.Error(t, err)
}

func TestLoader_S3Config(t *testing.T) {
	_, err := testLoader().Load(context.Background(), "s3://bucket/passwords.csv")
	assert.ErrorContains(t, err, "S3_ENDPOINT")

	l := NewLoader(S3Config{Endpoint: "localhost:9000"})
	_, err = l.Load(context.Background(), "s3://bucket")
	assert.ErrorContains(t, err, "invalid s3 source")
}
