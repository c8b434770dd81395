package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
)

// ErrInvalidGCSURI は gs://bucket/object 形式でない URI に対して返ります。
var ErrInvalidGCSURI = errors.New("invalid gs:// uri")

// GCSReader は Cloud Storage 上のオブジェクトを読み出します。
type GCSReader struct {
	client *storage.Client
}

// NewGCSReader はアプリケーションデフォルト認証で GCSReader を作ります。
func NewGCSReader(ctx context.Context) (*GCSReader, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSReader{client: client}, nil
}

// NewGCSReaderWithClient は既存の storage.Client を使います。
func NewGCSReaderWithClient(client *storage.Client) (*GCSReader, error) {
	if client == nil {
		return nil, fmt.Errorf("storage client is required")
	}
	return &GCSReader{client: client}, nil
}

// Open は gs://bucket/object を開きます。呼び出し側が Close すること。
func (r *GCSReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, object, err := ParseGCSURI(uri)
	if err != nil {
		return nil, err
	}
	rc, err := r.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", uri, err)
	}
	return rc, nil
}

// Close は内部の storage.Client を閉じます。
func (r *GCSReader) Close() error {
	return r.client.Close()
}

// ParseGCSURI は gs://bucket/path/to/object をバケット名とオブジェクト名に分けます。
func ParseGCSURI(uri string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(uri, "gs://")
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidGCSURI, uri)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidGCSURI, uri)
	}
	return bucket, object, nil
}
