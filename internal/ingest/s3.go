// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// openS3 streams s3://bucket/path/to/object from the configured endpoint.
func (l *Loader) openS3(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	if l.s3.Endpoint == "" {
		return nil, errors.New("s3 sources require S3_ENDPOINT to be set")
	}

	bucket := u.Host
	object := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || object == "" {
		return nil, fmt.Errorf("invalid s3 source %q, expected s3://bucket/object", u.String())
	}

	client, err := minio.New(l.s3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(l.s3.AccessKey, l.s3.SecretKey, ""),
		Secure: l.s3.Secure,
	})
	if err != nil {
		return nil, err
	}

	obj, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}

	// GetObject is lazy, Stat surfaces missing objects before reading starts
	if _, err = obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, err
	}

	return obj, nil
}
