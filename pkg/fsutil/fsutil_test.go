package fsutil_test

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voughtdq/ex-doc/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads content and metadata", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		require.NoError(t, os.WriteFile(path, []byte("# hi\n"), 0o600))

		content, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "# hi\n", string(content))
		assert.Equal(t, path, info.Path)
		assert.Equal(t, int64(5), info.Size)
		assert.Equal(t, sha256.Sum256([]byte("# hi\n")), info.Hash)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.md"))
		require.ErrorIs(t, err, fsutil.ErrNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), t.TempDir())
		require.ErrorIs(t, err, fsutil.ErrIsDirectory)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := fsutil.ReadFile(ctx, "whatever.md")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestContentChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	setup := func(t *testing.T) (string, *fsutil.FileInfo) {
		t.Helper()
		path := filepath.Join(t.TempDir(), "doc.md")
		require.NoError(t, os.WriteFile(path, []byte("same"), 0o600))
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		return path, info
	}

	t.Run("rewrite with same content is not a change", func(t *testing.T) {
		t.Parallel()

		path, info := setup(t)
		require.NoError(t, os.WriteFile(path, []byte("same"), 0o600))

		changed, err := fsutil.ContentChanged(ctx, info)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("same size different content", func(t *testing.T) {
		t.Parallel()

		path, info := setup(t)
		require.NoError(t, os.WriteFile(path, []byte("diff"), 0o600))

		changed, err := fsutil.ContentChanged(ctx, info)
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("different size", func(t *testing.T) {
		t.Parallel()

		path, info := setup(t)
		require.NoError(t, os.WriteFile(path, []byte("longer content"), 0o600))

		changed, err := fsutil.ContentChanged(ctx, info)
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("deleted file", func(t *testing.T) {
		t.Parallel()

		path, info := setup(t)
		require.NoError(t, os.Remove(path))

		changed, err := fsutil.ContentChanged(ctx, info)
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.ContentChanged(ctx, nil)
		require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
	})
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"relative keeps layout", "docs/guide.md", filepath.Join("out", "docs", "guide.json")},
		{"livemd", "notebook.livemd", filepath.Join("out", "notebook.json")},
		{"absolute is flattened", "/tmp/x/readme.md", filepath.Join("out", "readme.json")},
		{"parent is flattened", "../other/a.md", filepath.Join("out", "a.json")},
		{"no extension", "README", filepath.Join("out", "README.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fsutil.OutputPath("out", tt.source))
		})
	}
}
