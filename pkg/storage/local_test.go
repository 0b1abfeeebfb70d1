package storage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/beautydb/backoffice/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDisk_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	d := storage.NewLocalDisk(t.TempDir(), "http://cdn.test/")

	require.NoError(t, d.Put(ctx, "uploads/a.jpg", strings.NewReader("jpeg")))

	ok, err := d.Exists(ctx, "uploads/a.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := d.Get(ctx, "uploads/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	require.NoError(t, d.Delete(ctx, "uploads/a.jpg"))
	require.NoError(t, d.Delete(ctx, "uploads/a.jpg"), "deleting a missing file is not an error")

	_, err = d.Get(ctx, "uploads/a.jpg")
	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestLocalDisk_URLRoundTrip(t *testing.T) {
	d := storage.NewLocalDisk(t.TempDir(), "http://cdn.test/")

	url := d.URL("uploads/b.png")
	assert.Equal(t, "http://cdn.test/uploads/b.png", url)

	path, ok := d.PathFromURL(url)
	require.True(t, ok)
	assert.Equal(t, "uploads/b.png", path)

	_, ok = d.PathFromURL("http://elsewhere.test/uploads/b.png")
	assert.False(t, ok)
}

func TestLocalDisk_PathsStayInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	d := storage.NewLocalDisk(root, "http://cdn.test")

	require.NoError(t, d.Put(ctx, "../../escape.txt", strings.NewReader("x")))

	files, err := d.Files(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"escape.txt"}, files)
}

func TestLocalDisk_FilesOnMissingDirectory(t *testing.T) {
	d := storage.NewLocalDisk(t.TempDir(), "http://cdn.test")

	files, err := d.Files(context.Background(), "uploads")
	require.NoError(t, err)
	assert.Empty(t, files)
}
