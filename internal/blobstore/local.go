package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps blobs on the local filesystem below baseDir.
// Locators are slash-separated paths relative to baseDir.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}
	return &LocalStore{baseDir: abs}, nil
}

func (s *LocalStore) Put(ctx context.Context, key string, body io.Reader, _ int64) (Object, error) {
	absPath, err := s.resolve(key)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return Object{}, fmt.Errorf("create blob directory: %w", err)
	}

	dst, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Object{}, fmt.Errorf("create blob: %w", err)
	}

	n, err := io.Copy(dst, readerWithContext(ctx, body))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(absPath)
		return Object{}, fmt.Errorf("write blob: %w", err)
	}

	return Object{Locator: key, Size: n}, nil
}

func (s *LocalStore) Get(_ context.Context, locator string) (io.ReadCloser, error) {
	absPath, err := s.resolve(locator)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

func (s *LocalStore) Delete(_ context.Context, locator string) error {
	absPath, err := s.resolve(locator)
	if err != nil {
		return err
	}
	err = os.Remove(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return ErrObjectNotFound
	}
	if err != nil {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

// resolve maps a locator to an absolute path, refusing anything that escapes baseDir.
func (s *LocalStore) resolve(locator string) (string, error) {
	if locator == "" {
		return "", fmt.Errorf("empty blob locator")
	}
	absPath := filepath.Join(s.baseDir, filepath.FromSlash(locator))
	if !strings.HasPrefix(absPath, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("blob locator %q escapes store root", locator)
	}
	return absPath, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
