package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(nested, 0755))

	wanted := filepath.Join(dir, "a.hcl")
	alsoWanted := filepath.Join(nested, "b.hcl")
	ignored := filepath.Join(dir, "c.txt")
	for _, path := range []string{wanted, alsoWanted, ignored} {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}

	t.Run("walks directories recursively", func(t *testing.T) {
		files, err := FindFilesByExtension(dir, ".hcl")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{wanted, alsoWanted}, files)
	})

	t.Run("returns a file path as-is", func(t *testing.T) {
		files, err := FindFilesByExtension(ignored, ".hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{ignored}, files)
	})

	t.Run("missing path errors", func(t *testing.T) {
		_, err := FindFilesByExtension(filepath.Join(dir, "nope"), ".hcl")
		require.Error(t, err)
	})
}
