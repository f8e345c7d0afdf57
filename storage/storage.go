// Package storage saves uploaded product images and returns their public URL.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Blobs interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

var unsafeChars = regexp.MustCompile(`[^\w\-.]`)

// ObjectName builds a unique, path-safe object name that keeps the extension.
func ObjectName(original string) string {
	base := filepath.Base(original)
	ext := strings.ToLower(filepath.Ext(base))
	stem := unsafeChars.ReplaceAllString(strings.TrimSuffix(base, filepath.Ext(base)), "_")
	if len(stem) > 40 {
		stem = stem[:40]
	}
	return fmt.Sprintf("%s_%s%s", uuid.NewString()[:8], stem, ext)
}

// Local writes into a directory served by the API under /uploads.
type Local struct {
	Dir     string
	BaseURL string
}

func (l *Local) Save(_ context.Context, name, _ string, r io.Reader) (string, error) {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create upload folder")
	}
	name = filepath.Base(name)
	f, err := os.Create(filepath.Join(l.Dir, name))
	if err != nil {
		return "", errors.Wrap(err, "create file")
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", errors.Wrap(err, "write file")
	}
	if err := f.Sync(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/uploads/%s", strings.TrimRight(l.BaseURL, "/"), name), nil
}
