package file

import (
	"time"

	"filedrive/internal/domain/folder"
)

type Status string

const (
	// StatusPending marks a row written before its blob is stored.
	StatusPending Status = "pending"
	// StatusCommitted marks a row whose blob is known to exist.
	StatusCommitted Status = "committed"
)

// File is the metadata record of one uploaded blob.
type File struct {
	ID           string         `gorm:"column:id;primaryKey" json:"id"`
	DisplayName  string         `gorm:"column:display_name" json:"display_name"`
	OriginalName string         `gorm:"column:original_name" json:"original_name"`
	Size         int64          `gorm:"column:size" json:"size"`
	Locator      string         `gorm:"column:locator" json:"-"`
	Status       Status         `gorm:"column:status" json:"status"`
	FolderID     string         `gorm:"column:folder_id" json:"folder_id"`
	UserID       string         `gorm:"column:user_id" json:"user_id"`
	Folder       *folder.Folder `gorm:"foreignKey:FolderID" json:"folder,omitempty"`
	CreatedAt    time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (File) TableName() string { return "files" }

// Tombstone records a blob whose metadata is gone but whose delete has not
// been confirmed by the blob store yet.
type Tombstone struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Locator   string    `gorm:"column:locator"`
	FileID    string    `gorm:"column:file_id"`
	Reason    string    `gorm:"column:reason"`
	Attempts  int       `gorm:"column:attempts"`
	LastError string    `gorm:"column:last_error"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Tombstone) TableName() string { return "blob_tombstones" }

// Listing is a folder together with its committed files.
type Listing struct {
	Folder *folder.Folder
	Files  []*File
}
