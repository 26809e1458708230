// Package blobstore stores opaque binary payloads outside the relational
// database. Callers address blobs only through the locator a Store returns.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("blob not found")

// Object describes a stored blob.
type Object struct {
	Locator string
	Size    int64
}

// Store is the capability the file orchestrator needs from object storage.
type Store interface {
	// Put writes body under key. size is a hint and may be -1.
	Put(ctx context.Context, key string, body io.Reader, size int64) (Object, error)
	// Get opens the blob; the caller must close the reader.
	Get(ctx context.Context, locator string) (io.ReadCloser, error)
	// Delete removes the blob. A missing blob may surface as ErrObjectNotFound,
	// which callers treat as already deleted.
	Delete(ctx context.Context, locator string) error
}

// NewKey builds a collision-free key of the form users/<user>/YYYY/MM/DD/<uuid>_<name>.
func NewKey(userID, originalName string) string {
	now := time.Now().UTC()
	return fmt.Sprintf("users/%s/%d/%02d/%02d/%s_%s",
		sanitizeSegment(userID), now.Year(), now.Month(), now.Day(), uuid.NewString(), sanitizeName(originalName))
}

func sanitizeSegment(s string) string {
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, s)
	if s == "" {
		return "anonymous"
	}
	return s
}

func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := path.Ext(name)
	base := sanitizeSegment(strings.TrimSuffix(name, ext))
	if len(base) > 40 {
		base = base[:40]
	}
	if base == "anonymous" {
		base = "file"
	}
	return base + sanitizeExt(ext)
}

func sanitizeExt(ext string) string {
	if ext == "" || len(ext) > 10 {
		return ""
	}
	return "." + sanitizeSegment(strings.TrimPrefix(ext, "."))
}
