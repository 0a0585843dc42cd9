// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pwd-strength/internal/ingest"
	"pwd-strength/pkg/gcs"
	"pwd-strength/pkg/strength"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDenylist_List(t *testing.T) {
	logs := captureLogs(t)
	path := writeFile(t, "passwords.csv", "1,123456\n2,password\n3,qwerty\n")

	d, err := loadDenylist(context.Background(), path, 0, ingest.S3Config{})
	require.NoError(t, err)
	assert.Equal(t, 3, d.Len())
	assert.True(t, d.IsCommon("password"))
	assert.False(t, d.IsCommon("Tr0ub4dor&3"))
	assert.NotContains(t, logs.String(), "probabilistic")
}

func TestLoadDenylist_Empty(t *testing.T) {
	path := writeFile(t, "passwords.csv", "\n\n")

	_, err := loadDenylist(context.Background(), path, 0, ingest.S3Config{})
	assert.Error(t, err)

	_, err = loadDenylist(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), 0, ingest.S3Config{})
	assert.Error(t, err)
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var logs bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&logs)
	t.Cleanup(func() { log.Logger = prev })
	return &logs
}

func TestLoadDenylist_Gcs(t *testing.T) {
	logs := captureLogs(t)
	path := filepath.Join(t.TempDir(), "denylist.gcs")
	out, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, gcs.NewBuilder([]string{"password", "123456", "qwerty"}, out, 1<<20, 2).Process())
	require.NoError(t, out.Close())

	d, err := loadDenylist(context.Background(), path, 10, ingest.S3Config{})
	require.NoError(t, err)
	assert.Equal(t, 3, d.Len())
	assert.True(t, d.IsCommon("qwerty"))
	assert.False(t, d.IsCommon("Tr0ub4dor&3"))
	assert.Contains(t, logs.String(), "probabilistic")
	assert.Contains(t, logs.String(), "1048576")
}

func TestEvaluateOne(t *testing.T) {
	var out bytes.Buffer
	evaluator := strength.NewEvaluator(nil)

	require.NoError(t, evaluateOne(evaluator, strength.English, "Tr0ub4dor&3", &out))

	var resp strength.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.IsValid)
	assert.Equal(t, 72.1, resp.Entropy)
	assert.Equal(t, "Strong", resp.Strength)
	assert.Equal(t, "about 8 decades", resp.CrackTime)
	assert.NotContains(t, out.String(), "Tr0ub4dor&3")
}

func TestEvaluateAll(t *testing.T) {
	passwords := []string{"password", "", "Tr0ub4dor&3", "aaaaaaaaaaaa", "hunter2"}

	for _, workers := range []int{0, 1, 4} {
		var out bytes.Buffer
		evaluator := strength.NewEvaluator(denylistFixture{"password": {}})

		written, err := evaluateAll(evaluator, strength.Spanish, strings.NewReader(strings.Join(passwords, "\n")), &out, workers)
		require.NoError(t, err)
		assert.Equal(t, 4, written)

		raw := out.String()
		byLine := map[int]strength.Response{}
		scanner := bufio.NewScanner(strings.NewReader(raw))
		for scanner.Scan() {
			var e evaluation
			require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
			byLine[e.Line] = e.Result
		}

		require.Len(t, byLine, 4)
		assert.False(t, byLine[1].IsValid)
		assert.NotContains(t, byLine, 2)
		assert.Equal(t, "Fuerte", byLine[3].Strength)
		assert.Equal(t, 56.41, byLine[4].Entropy)
		assert.True(t, byLine[5].IsValid)
		for _, p := range passwords[2:] {
			assert.NotContains(t, raw, p)
		}
	}
}

func TestEvaluateAll_CRLF(t *testing.T) {
	evaluator := strength.NewEvaluator(denylistFixture{"password": {}})

	var crlf, lf bytes.Buffer
	_, err := evaluateAll(evaluator, strength.English, strings.NewReader("password\r\naaaaaaaaaaaa\r\n"), &crlf, 1)
	require.NoError(t, err)
	_, err = evaluateAll(evaluator, strength.English, strings.NewReader("password\naaaaaaaaaaaa\n"), &lf, 1)
	require.NoError(t, err)

	assert.Equal(t, lf.String(), crlf.String())
	assert.Contains(t, crlf.String(), `"entropy":56.41`)
	assert.Contains(t, crlf.String(), `"isValid":false`)
}

func TestEvaluateAll_LongLine(t *testing.T) {
	evaluator := strength.NewEvaluator(nil)
	input := strings.Repeat("a", 200*1024) + "\nhunter2\n"

	var out bytes.Buffer
	written, err := evaluateAll(evaluator, strength.English, strings.NewReader(input), &out, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, written)
}

func TestLookupLocale(t *testing.T) {
	l, err := lookupLocale("en")
	require.NoError(t, err)
	assert.Same(t, strength.English, l)

	_, err = lookupLocale("zz-not-a-locale")
	assert.Error(t, err)
}

type denylistFixture map[string]struct{}

func (d denylistFixture) IsCommon(password string) bool {
	_, ok := d[password]
	return ok
}
