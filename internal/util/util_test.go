// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToScreamingSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Port":           "PORT",
		"DenylistSource": "DENYLIST_SOURCE",
		"TLSCert":        "TLS_CERT",
		"SelfTLS":        "SELF_TLS",
		"S3Endpoint":     "S3_ENDPOINT",
		"TLSCert TLSKey": "TLS_CERT TLS_KEY",
		"":               "",
	}

	for in, want := range cases {
		assert.Equal(t, want, ToScreamingSnakeCase(in), in)
	}
}

func TestCheckRam(t *testing.T) {
	assert.NoError(t, CheckRam(1))
	assert.Error(t, CheckRam(1<<62))
}

func TestCheckDiskSpace(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, CheckDiskSpace(dir+"/out.gcs", 1))
	assert.Error(t, CheckDiskSpace(dir+"/out.gcs", 1<<62))
}
