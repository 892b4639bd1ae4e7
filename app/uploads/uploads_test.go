package uploads

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Save returns a root relative path and writes the file", func(t *testing.T) {
		root := t.TempDir()
		store, err := NewLocalStore(root)
		require.NoError(t, err)

		stored, err := store.Save(ctx, "Lotus.PNG", strings.NewReader("png-bytes"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(stored, "/images/uploads/"), stored)
		assert.True(t, strings.HasSuffix(stored, ".png"), stored)

		b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(stored)))
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(b))
	})

	t.Run("Two uploads of the same name do not collide", func(t *testing.T) {
		store, err := NewLocalStore(t.TempDir())
		require.NoError(t, err)

		a, err := store.Save(ctx, "tea.jpg", strings.NewReader("a"))
		require.NoError(t, err)
		b, err := store.Save(ctx, "tea.jpg", strings.NewReader("b"))
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("Delete removes the file and tolerates a missing one", func(t *testing.T) {
		root := t.TempDir()
		store, err := NewLocalStore(root)
		require.NoError(t, err)

		stored, err := store.Save(ctx, "tea.jpg", strings.NewReader("a"))
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, stored))
		_, err = os.Stat(filepath.Join(root, filepath.FromSlash(stored)))
		assert.True(t, os.IsNotExist(err))

		assert.NoError(t, store.Delete(ctx, stored), "deleting twice is not an error")
	})

	t.Run("Delete refuses paths outside the upload dir", func(t *testing.T) {
		store, err := NewLocalStore(t.TempDir())
		require.NoError(t, err)

		for _, p := range []string{"/etc/passwd", "/images/uploads/../../secret", ""} {
			assert.ErrorIs(t, store.Delete(ctx, p), ErrInvalidPath, p)
		}
	})
}

func TestStoredName(t *testing.T) {
	assert.True(t, strings.HasSuffix(storedName("photo.JPEG"), ".jpeg"))
	assert.NotContains(t, storedName("evil.ht ml"), ".")
	assert.NotContains(t, storedName("noext"), ".")
}

func TestGCSObjectKey(t *testing.T) {
	s := &GCSStore{baseURL: gcsPublicHost + "/tea-pictures"}

	key, err := s.objectKey("https://storage.googleapis.com/tea-pictures/images/uploads/abc.png")
	require.NoError(t, err)
	assert.Equal(t, "images/uploads/abc.png", key)

	_, err = s.objectKey("https://storage.googleapis.com/other-bucket/images/uploads/abc.png")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = s.objectKey("/images/uploads/abc.png")
	assert.ErrorIs(t, err, ErrInvalidPath)
}
