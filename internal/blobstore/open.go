package blobstore

import (
	"context"
	"fmt"
)

const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Options selects a backend and carries its settings.
type Options struct {
	Backend  string
	LocalDir string
	S3       S3Config
}

// Open constructs the configured Store.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendLocal, "":
		return NewLocalStore(opts.LocalDir)
	case BackendS3:
		return NewS3Store(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", opts.Backend)
	}
}
