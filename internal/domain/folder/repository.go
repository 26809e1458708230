package folder

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"filedrive/internal/database"
)

type Repository interface {
	Create(ctx context.Context, f *Folder) error
	ListByUser(ctx context.Context, userID string) ([]*Folder, error)
	// GetOwned treats a folder owned by someone else as missing.
	GetOwned(ctx context.Context, id, userID string) (*Folder, error)
	// DeleteIfEmpty re-checks emptiness in the same statement that deletes.
	DeleteIfEmpty(ctx context.Context, id, userID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *Folder) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]*Folder, error) {
	var folders []*Folder
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&folders).Error
	return folders, err
}

func (r *repository) GetOwned(ctx context.Context, id, userID string) (*Folder, error) {
	var f Folder
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFolderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// DeleteIfEmpty deletes the folder only while no file row (pending or committed)
// references it. A file inserted concurrently either makes the NOT EXISTS fail
// or trips the files.folder_id foreign key; both surface as ErrFolderNotEmpty.
func (r *repository) DeleteIfEmpty(ctx context.Context, id, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).
			Where("NOT EXISTS (SELECT 1 FROM files WHERE files.folder_id = folders.id)").
			Delete(&Folder{})
		if res.Error != nil {
			if database.IsForeignKeyViolation(res.Error) {
				return ErrFolderNotEmpty
			}
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		var count int64
		if err := tx.Model(&Folder{}).Where("id = ? AND user_id = ?", id, userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrFolderNotFound
		}
		return ErrFolderNotEmpty
	})
}
