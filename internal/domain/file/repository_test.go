package file

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filedrive/internal/domain/folder"
)

func pendingFile(folderID, userID string) *File {
	id := uuid.NewString()
	return &File{
		ID:           id,
		DisplayName:  "a.txt",
		OriginalName: "a.txt",
		Locator:      "users/" + userID + "/" + id,
		FolderID:     folderID,
		UserID:       userID,
	}
}

func TestRepository_CreatePending_ChecksFolderOwner(t *testing.T) {
	fx := newFixture(t, newMemStore())
	docs := fx.folder(t, "u1", "Docs")
	ctx := context.Background()

	err := fx.files.CreatePending(ctx, pendingFile(docs.ID, "u2"))
	assert.ErrorIs(t, err, folder.ErrFolderNotFound)

	err = fx.files.CreatePending(ctx, pendingFile("missing", "u1"))
	assert.ErrorIs(t, err, folder.ErrFolderNotFound)

	f := pendingFile(docs.ID, "u1")
	require.NoError(t, fx.files.CreatePending(ctx, f))
	assert.Equal(t, StatusPending, f.Status)

	_, err = fx.files.GetCommitted(ctx, f.ID)
	assert.ErrorIs(t, err, ErrFileNotFound, "pending rows are invisible to reads")
}

func TestRepository_CommitOnlyPromotesPending(t *testing.T) {
	fx := newFixture(t, newMemStore())
	docs := fx.folder(t, "u1", "Docs")
	ctx := context.Background()

	f := pendingFile(docs.ID, "u1")
	require.NoError(t, fx.files.CreatePending(ctx, f))
	require.NoError(t, fx.files.Commit(ctx, f.ID, 42))

	got, err := fx.files.GetCommitted(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Size)
	assert.Equal(t, docs.ID, got.Folder.ID)

	assert.ErrorIs(t, fx.files.Commit(ctx, f.ID, 42), errPendingRowMissing)
	assert.ErrorIs(t, fx.files.Commit(ctx, "missing", 1), errPendingRowMissing)
}

func TestRepository_ListStalePending(t *testing.T) {
	fx := newFixture(t, newMemStore())
	docs := fx.folder(t, "u1", "Docs")
	ctx := context.Background()

	old := pendingFile(docs.ID, "u1")
	old.CreatedAt = time.Now().UTC().Add(-3 * time.Hour)
	fresh := pendingFile(docs.ID, "u1")
	committed := pendingFile(docs.ID, "u1")
	committed.CreatedAt = time.Now().UTC().Add(-3 * time.Hour)
	for _, f := range []*File{old, fresh, committed} {
		require.NoError(t, fx.files.CreatePending(ctx, f))
	}
	require.NoError(t, fx.files.Commit(ctx, committed.ID, 1))

	stale, err := fx.files.ListStalePending(ctx, time.Now().Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, old.ID, stale[0].ID)
}

func TestRepository_DeleteWithTombstone(t *testing.T) {
	fx := newFixture(t, newMemStore())
	docs := fx.folder(t, "u1", "Docs")
	ctx := context.Background()

	f := pendingFile(docs.ID, "u1")
	require.NoError(t, fx.files.CreatePending(ctx, f))
	require.NoError(t, fx.files.Commit(ctx, f.ID, 3))

	tomb, err := fx.files.DeleteWithTombstone(ctx, f, "file deleted")
	require.NoError(t, err)
	assert.Equal(t, f.Locator, tomb.Locator)

	_, err = fx.files.DeleteWithTombstone(ctx, f, "file deleted")
	assert.ErrorIs(t, err, ErrFileNotFound)

	tombs, err := fx.files.ListTombstones(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tombs, 1, "a failed delete must not leave a second tombstone")

	require.NoError(t, fx.files.ResolveTombstone(ctx, tomb.ID))
	tombs, err = fx.files.ListTombstones(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, tombs)
}

func TestRepository_ClaimPending(t *testing.T) {
	fx := newFixture(t, newMemStore())
	docs := fx.folder(t, "u1", "Docs")
	ctx := context.Background()

	stale := pendingFile(docs.ID, "u1")
	require.NoError(t, fx.files.CreatePending(ctx, stale))
	tomb, err := fx.files.ClaimPending(ctx, stale, "upload abandoned")
	require.NoError(t, err)
	assert.Equal(t, stale.Locator, tomb.Locator)
	assert.ErrorIs(t, fx.files.Commit(ctx, stale.ID, 3), errPendingRowMissing)

	committed := pendingFile(docs.ID, "u1")
	require.NoError(t, fx.files.CreatePending(ctx, committed))
	require.NoError(t, fx.files.Commit(ctx, committed.ID, 3))
	_, err = fx.files.ClaimPending(ctx, committed, "upload abandoned")
	assert.ErrorIs(t, err, errPendingRowMissing)

	_, err = fx.files.GetCommitted(ctx, committed.ID)
	require.NoError(t, err)
	tombs, err := fx.files.ListTombstones(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, tombs, 1, "a skipped claim leaves no tombstone")
}
