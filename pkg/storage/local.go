package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalUploader writes objects under a directory on disk. The API serves
// the directory at baseURL.
type LocalUploader struct {
	dir     string
	baseURL string
}

func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("local storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalUploader{dir: dir, baseURL: baseURL}, nil
}

func (l *LocalUploader) Dir() string {
	return l.dir
}

func (l *LocalUploader) Put(ctx context.Context, key, contentType string, body io.Reader) (Object, error) {
	path, err := l.path(key)
	if err != nil {
		return Object{}, err
	}
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Object{}, fmt.Errorf("create object directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return Object{}, fmt.Errorf("create object: %w", err)
	}
	n, copyErr := io.Copy(f, body)
	closeErr := f.Close()
	if copyErr != nil {
		_ = os.Remove(path)
		return Object{}, fmt.Errorf("write object: %w", copyErr)
	}
	if closeErr != nil {
		return Object{}, fmt.Errorf("close object: %w", closeErr)
	}
	return Object{Key: key, URL: JoinURL(l.baseURL, key), ContentType: contentType, Size: n}, nil
}

func (l *LocalUploader) Delete(_ context.Context, key string) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// path rejects keys that would escape the storage directory.
func (l *LocalUploader) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", errors.New("object key is required")
	}
	return filepath.Join(l.dir, filepath.FromSlash(clean)), nil
}
