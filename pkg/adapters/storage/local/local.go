// Package local stores uploads on the filesystem under one root directory,
// served back by the HTTP layer at /media/.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Storage struct {
	root    string
	baseURL string
	log     *zap.Logger
	now     func() time.Time
}

func New(root, baseURL string, log *zap.Logger) *Storage {
	if log == nil {
		log = zap.NewNop()
	}
	return &Storage{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
		now:     time.Now,
	}
}

// Root is the directory files are written to.
func (s *Storage) Root() string {
	return s.root
}

// Put writes data to <root>/<bucket>/<name>, replacing any existing file,
// and returns its public URL. The URL carries a version query so that
// replaced files are not served stale.
func (s *Storage) Put(ctx context.Context, bucket, name, contentType string, data io.Reader) (string, error) {
	rel := path.Clean("/" + bucket + "/" + name)
	if rel == "/" || strings.Count(rel, "/") < 2 {
		return "", fmt.Errorf("invalid storage path %q/%q", bucket, name)
	}
	target := filepath.Join(s.root, filepath.FromSlash(rel))

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	s.log.Debug("stored file", zap.String("path", rel), zap.String("content_type", contentType))
	return fmt.Sprintf("%s/media%s?v=%d", s.baseURL, rel, s.now().Unix()), nil
}
