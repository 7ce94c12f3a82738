package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSSink uploads artifacts to a Google Cloud Storage bucket.
type GCSSink struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSSink creates a client with read-write scope. Credentials come from
// the environment unless opts say otherwise.
func NewGCSSink(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*GCSSink, error) {
	if bucket == "" {
		return nil, fmt.Errorf("artifact: gcs bucket is required")
	}
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSSink{client: client, bucket: bucket, prefix: prefix}, nil
}

// ObjectName returns the bucket object name for an artifact key.
func (g *GCSSink) ObjectName(key string) string {
	if g.prefix == "" {
		return key
	}
	return path.Join(g.prefix, key)
}

func (g *GCSSink) Put(ctx context.Context, req Request) (Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	rc := receipt(req)
	w := g.client.Bucket(g.bucket).Object(g.ObjectName(req.Key)).NewWriter(ctx)
	w.ContentType = req.ContentType
	w.Metadata = map[string]string{"blake3": rc.Digest}
	if _, err := io.Copy(w, bytes.NewReader(req.Content)); err != nil {
		_ = w.Close()
		return Receipt{}, fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return Receipt{}, fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return rc, nil
}

// Close releases the storage client.
func (g *GCSSink) Close() error { return g.client.Close() }
