package file

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"filedrive/internal/database"
	"filedrive/internal/domain/folder"
)

type Repository interface {
	// CreatePending inserts f as pending after confirming the folder exists and
	// belongs to f.UserID, all inside one transaction.
	CreatePending(ctx context.Context, f *File) error
	Commit(ctx context.Context, id string, size int64) error
	DeletePending(ctx context.Context, id string) error

	ListCommitted(ctx context.Context, folderID string) ([]*File, error)
	GetCommitted(ctx context.Context, id string) (*File, error)

	// DeleteWithTombstone removes the row and records its blob for deletion atomically.
	DeleteWithTombstone(ctx context.Context, f *File, reason string) (*Tombstone, error)
	// ClaimPending does the same for a row still pending. It returns
	// errPendingRowMissing when the row was committed or removed first.
	ClaimPending(ctx context.Context, f *File, reason string) (*Tombstone, error)
	ListStalePending(ctx context.Context, before time.Time, limit int) ([]*File, error)
	ListTombstones(ctx context.Context, limit int) ([]*Tombstone, error)
	ResolveTombstone(ctx context.Context, id string) error
	RecordTombstoneFailure(ctx context.Context, id string, cause error) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePending(ctx context.Context, f *File) error {
	f.Status = StatusPending
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// sqlite has no row locks; its single writer already serialises this.
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "SHARE"})
		}

		var owner folder.Folder
		err := q.Where("id = ?", f.FolderID).First(&owner).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return folder.ErrFolderNotFound
		}
		if err != nil {
			return err
		}
		if owner.UserID != f.UserID {
			return folder.ErrFolderNotFound
		}

		if err := tx.Omit(clause.Associations).Create(f).Error; err != nil {
			if database.IsForeignKeyViolation(err) {
				return folder.ErrFolderNotFound
			}
			return err
		}
		return nil
	})
}

func (r *repository) Commit(ctx context.Context, id string, size int64) error {
	res := r.db.WithContext(ctx).Model(&File{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{"status": StatusCommitted, "size": size})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errPendingRowMissing
	}
	return nil
}

func (r *repository) DeletePending(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, StatusPending).
		Delete(&File{}).Error
}

func (r *repository) ListCommitted(ctx context.Context, folderID string) ([]*File, error) {
	var files []*File
	err := r.db.WithContext(ctx).
		Where("folder_id = ? AND status = ?", folderID, StatusCommitted).
		Order("created_at ASC").
		Find(&files).Error
	return files, err
}

func (r *repository) GetCommitted(ctx context.Context, id string) (*File, error) {
	var f File
	err := r.db.WithContext(ctx).
		Preload("Folder").
		Where("id = ? AND status = ?", id, StatusCommitted).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repository) DeleteWithTombstone(ctx context.Context, f *File, reason string) (*Tombstone, error) {
	return r.deleteWithTombstone(ctx, f, StatusCommitted, reason, ErrFileNotFound)
}

func (r *repository) ClaimPending(ctx context.Context, f *File, reason string) (*Tombstone, error) {
	return r.deleteWithTombstone(ctx, f, StatusPending, reason, errPendingRowMissing)
}

func (r *repository) deleteWithTombstone(ctx context.Context, f *File, status Status, reason string, missing error) (*Tombstone, error) {
	tomb := &Tombstone{
		ID:      uuid.NewString(),
		Locator: f.Locator,
		FileID:  f.ID,
		Reason:  reason,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND status = ?", f.ID, status).Delete(&File{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return missing
		}
		return tx.Create(tomb).Error
	})
	if err != nil {
		return nil, err
	}
	return tomb, nil
}

func (r *repository) ListStalePending(ctx context.Context, before time.Time, limit int) ([]*File, error) {
	var files []*File
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", StatusPending, before.UTC()).
		Order("created_at ASC").
		Limit(limit).
		Find(&files).Error
	return files, err
}

func (r *repository) ListTombstones(ctx context.Context, limit int) ([]*Tombstone, error) {
	var tombs []*Tombstone
	err := r.db.WithContext(ctx).Order("created_at ASC").Limit(limit).Find(&tombs).Error
	return tombs, err
}

func (r *repository) ResolveTombstone(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Tombstone{}).Error
}

func (r *repository) RecordTombstoneFailure(ctx context.Context, id string, cause error) error {
	return r.db.WithContext(ctx).Model(&Tombstone{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": cause.Error(),
		}).Error
}
