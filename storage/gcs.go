package storage

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
)

// GCS stores objects in a public-read Cloud Storage bucket, usually the
// Firebase project's default bucket.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCS(client *storage.Client, bucket, prefix string) *GCS {
	return &GCS{client: client, bucket: bucket, prefix: prefix}
}

func (g *GCS) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	object := name
	if g.prefix != "" {
		object = g.prefix + "/" + name
	}
	w := g.client.Bucket(g.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", errors.Wrapf(err, "upload %s", object)
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrapf(err, "finalize %s", object)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, object), nil
}
