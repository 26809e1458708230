package file

import (
	"errors"

	"filedrive/internal/apperror"
)

var (
	ErrFileNotFound = apperror.New(apperror.ErrNotFound, "Could not locate file requested.")

	ErrStorageUnavailable   = apperror.New(apperror.ErrStorageUnavailable, "File storage is unavailable, please try again later.")
	ErrMetadataCommitFailed = apperror.New(apperror.ErrMetadataCommitFailed, "Your file could not be saved, please try again.")
	ErrDownloadFailed       = apperror.New(apperror.ErrStorageUnavailable, "Could not download file, please try again later.")

	// errPendingRowMissing means the pending row vanished before promotion,
	// usually because the sweep reclaimed an upload that outlived its TTL.
	errPendingRowMissing = errors.New("pending file row missing")
)
