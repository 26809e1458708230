package blobstore

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_RoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	content := bytes.Repeat([]byte("x"), 1200)
	key := NewKey("user-1", "report.pdf")

	obj, err := store.Put(ctx, key, bytes.NewReader(content), int64(len(content)))
	require.NoError(t, err)
	assert.Equal(t, key, obj.Locator)
	assert.Equal(t, int64(1200), obj.Size)

	rc, err := store.Get(ctx, obj.Locator)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, content, got)

	require.NoError(t, store.Delete(ctx, obj.Locator))

	_, err = store.Get(ctx, obj.Locator)
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.ErrorIs(t, store.Delete(ctx, obj.Locator), ErrObjectNotFound)
}

func TestLocalStore_RejectsEscapingLocator(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStore_CancelledPutLeavesNothing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	key := NewKey("user-1", "a.txt")
	_, err = store.Put(ctx, key, strings.NewReader("data"), 4)
	require.Error(t, err)

	_, err = store.Get(context.Background(), key)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestNewKey_Sanitizes(t *testing.T) {
	key := NewKey("u/../1", `C:\evil\..\<script>.PDF`)

	assert.True(t, strings.HasPrefix(key, "users/u____1/"))
	assert.NotContains(t, key, "..")
	assert.NotContains(t, key, "<")
	assert.True(t, strings.HasSuffix(key, "_script_.PDF"))
}
