package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"filedrive/internal/blobstore"
	"filedrive/internal/domain/folder"
)

const (
	tombstoneReasonDeleted      = "file deleted"
	tombstoneReasonStalePending = "upload abandoned"
)

// Policy holds the numbers resolved from configuration at startup.
type Policy struct {
	MaxUploadSize  int64
	BlobTimeout    time.Duration
	PendingTTL     time.Duration
	ReconcileBatch int
}

// Service orchestrates the file lifecycle across the metadata store and the
// blob store. Every stored blob is either referenced by a committed row or
// reachable from a pending row or tombstone that Reconcile will reclaim.
type Service struct {
	files   Repository
	folders folder.Repository
	blobs   blobstore.Store
	policy  Policy
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewService(files Repository, folders folder.Repository, blobs blobstore.Store, policy Policy, log logrus.FieldLogger) *Service {
	return &Service{
		files:   files,
		folders: folders,
		blobs:   blobs,
		policy:  policy,
		log:     log,
		now:     time.Now,
	}
}

func (s *Service) MaxUploadSize() int64 { return s.policy.MaxUploadSize }

// List returns the folder and its committed files. An empty folder yields an empty list.
func (s *Service) List(ctx context.Context, userID, folderID string) (*Listing, error) {
	f, err := s.folders.GetOwned(ctx, folderID, userID)
	if err != nil {
		return nil, err
	}
	files, err := s.files.ListCommitted(ctx, f.ID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	if files == nil {
		files = []*File{}
	}
	return &Listing{Folder: f, Files: files}, nil
}

// Create validates the submission, reserves a pending row, stores the blob
// and promotes the row. Nothing is written when validation fails.
func (s *Service) Create(ctx context.Context, userID, folderID string, sub Submission) (*File, error) {
	owner, err := s.folders.GetOwned(ctx, folderID, userID)
	if err != nil {
		return nil, err
	}

	upload, err := ValidateUpload(sub, s.policy.MaxUploadSize)
	if err != nil {
		return nil, err
	}

	f := &File{
		ID:           uuid.NewString(),
		DisplayName:  upload.DisplayName,
		OriginalName: upload.OriginalName,
		Size:         upload.Size,
		Locator:      blobstore.NewKey(userID, upload.OriginalName),
		FolderID:     owner.ID,
		UserID:       userID,
	}
	log := s.log.WithFields(logrus.Fields{
		"user_id":   userID,
		"folder_id": owner.ID,
		"file_id":   f.ID,
		"locator":   f.Locator,
		"size":      humanize.IBytes(uint64(upload.Size)),
	})

	if err := s.files.CreatePending(ctx, f); err != nil {
		if errors.Is(err, folder.ErrFolderNotFound) {
			return nil, err
		}
		log.WithError(err).Error("reserve pending file row failed")
		return nil, fmt.Errorf("%w: %w", ErrMetadataCommitFailed, err)
	}

	obj, err := s.putBlob(ctx, f.Locator, upload)
	if err != nil {
		log.WithError(err).Error("blob put failed, upload did not take effect")
		if derr := s.files.DeletePending(context.WithoutCancel(ctx), f.ID); derr != nil {
			log.WithError(derr).Warn("discard pending row failed, left for reconciliation")
		}
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	if err := s.files.Commit(ctx, f.ID, obj.Size); err != nil {
		log.WithError(err).Error("metadata commit failed after blob put, blob left for reconciliation")
		if errors.Is(err, errPendingRowMissing) {
			// The sweep claimed the row; drop the blob now instead of waiting for its tombstone.
			if derr := s.blobs.Delete(context.WithoutCancel(ctx), f.Locator); derr != nil && !errors.Is(derr, blobstore.ErrObjectNotFound) {
				log.WithError(derr).Error("orphaned blob delete failed")
			}
		}
		return nil, fmt.Errorf("%w: %w", ErrMetadataCommitFailed, err)
	}

	f.Status = StatusCommitted
	f.Size = obj.Size
	f.Folder = owner
	log.Info("file uploaded")
	return f, nil
}

func (s *Service) putBlob(ctx context.Context, key string, upload *Upload) (blobstore.Object, error) {
	if s.policy.BlobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.policy.BlobTimeout)
		defer cancel()
	}

	body, err := upload.Open()
	if err != nil {
		return blobstore.Object{}, fmt.Errorf("open upload: %w", err)
	}
	defer body.Close()

	return s.blobs.Put(ctx, key, body, upload.Size)
}

// Get returns a committed file with its folder. Files outside folderID or
// owned by someone else are reported as not found.
func (s *Service) Get(ctx context.Context, userID, folderID, fileID string) (*File, error) {
	f, err := s.files.GetCommitted(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if f.UserID != userID || f.FolderID != folderID || f.Folder == nil || f.Folder.UserID != userID {
		return nil, ErrFileNotFound
	}
	return f, nil
}

// Open returns the file and a reader over its content. The caller closes the reader.
func (s *Service) Open(ctx context.Context, userID, folderID, fileID string) (*File, io.ReadCloser, error) {
	f, err := s.Get(ctx, userID, folderID, fileID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Get(ctx, f.Locator)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"file_id": f.ID,
			"locator": f.Locator,
		}).Error("blob get failed")
		return f, nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	return f, rc, nil
}

// Delete removes the metadata row and tombstones its blob in one transaction,
// then deletes the blob. A failed blob delete leaves the tombstone for Reconcile.
func (s *Service) Delete(ctx context.Context, userID, folderID, fileID string) error {
	f, err := s.Get(ctx, userID, folderID, fileID)
	if err != nil {
		return err
	}

	tomb, err := s.files.DeleteWithTombstone(ctx, f, tombstoneReasonDeleted)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return err
		}
		return fmt.Errorf("delete file: %w", err)
	}

	log := s.log.WithFields(logrus.Fields{
		"user_id":   userID,
		"folder_id": folderID,
		"file_id":   f.ID,
		"locator":   f.Locator,
	})
	if err := s.reclaim(context.WithoutCancel(ctx), tomb); err != nil {
		log.WithError(err).Error("blob reclaim incomplete, tombstone left for reconciliation")
		return nil
	}
	log.Info("file deleted")
	return nil
}

func (s *Service) reclaim(ctx context.Context, tomb *Tombstone) error {
	if err := s.deleteBlob(ctx, tomb.Locator); err != nil {
		if rerr := s.files.RecordTombstoneFailure(ctx, tomb.ID, err); rerr != nil {
			s.log.WithError(rerr).WithField("tombstone_id", tomb.ID).Warn("record tombstone failure failed")
		}
		return err
	}
	return s.files.ResolveTombstone(ctx, tomb.ID)
}

func (s *Service) deleteBlob(ctx context.Context, locator string) error {
	if s.policy.BlobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.policy.BlobTimeout)
		defer cancel()
	}
	err := s.blobs.Delete(ctx, locator)
	if errors.Is(err, blobstore.ErrObjectNotFound) {
		return nil
	}
	return err
}

// ReconcileReport counts what one sweep did.
type ReconcileReport struct {
	PendingReclaimed   int
	TombstonesResolved int
	Failures           int
}

// Reconcile retries outstanding tombstones and reclaims uploads stuck in
// pending past the TTL. A stale row is claimed before its blob is touched, so
// an upload that commits first keeps its blob. Individual failures are logged
// and retried on the next sweep.
func (s *Service) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport

	tombs, err := s.files.ListTombstones(ctx, s.batch())
	if err != nil {
		return report, fmt.Errorf("list tombstones: %w", err)
	}
	for _, tomb := range tombs {
		if err := s.reclaim(ctx, tomb); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"tombstone_id": tomb.ID,
				"locator":      tomb.Locator,
				"attempts":     tomb.Attempts + 1,
			}).Warn("tombstone blob delete failed")
			report.Failures++
			continue
		}
		report.TombstonesResolved++
	}

	cutoff := s.now().Add(-s.policy.PendingTTL)
	stale, err := s.files.ListStalePending(ctx, cutoff, s.batch())
	if err != nil {
		return report, fmt.Errorf("list stale pending files: %w", err)
	}
	for _, f := range stale {
		log := s.log.WithFields(logrus.Fields{"file_id": f.ID, "locator": f.Locator})
		tomb, err := s.files.ClaimPending(ctx, f, tombstoneReasonStalePending)
		if errors.Is(err, errPendingRowMissing) {
			log.Debug("pending row resolved before reclaim")
			continue
		}
		if err != nil {
			log.WithError(err).Warn("claim pending row failed")
			report.Failures++
			continue
		}
		if err := s.reclaim(ctx, tomb); err != nil {
			log.WithError(err).Warn("reclaim pending blob failed, tombstone left for next sweep")
			report.Failures++
			continue
		}
		report.PendingReclaimed++
	}

	return report, nil
}

func (s *Service) batch() int {
	if s.policy.ReconcileBatch <= 0 {
		return 100
	}
	return s.policy.ReconcileBatch
}
