package images

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteAll(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.jpg"), []byte("img"), 0644))

	report := DeleteAll(root, []string{"a.jpg", "", "../../etc/passwd", "missing.jpg"})

	assert.Equal(t, []string{"a.jpg"}, report.Deleted)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, []string{"missing.jpg"}, report.NotFound)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "traversal")
	assert.NoFileExists(t, filepath.Join(root, "a.jpg"))
}

func TestDeleteAllRejectsUnsafeNames(t *testing.T) {
	root := t.TempDir()
	unsafe := []string{
		"../sibling.jpg",
		"~root.jpg",
		"a//b.jpg",
		"/etc/passwd",
		`\\server\share`,
		"C:stuff.jpg",
		"nul\x00byte.jpg",
	}

	report := DeleteAll(root, unsafe)
	assert.Empty(t, report.Deleted)
	assert.Empty(t, report.NotFound)
	assert.Len(t, report.Errors, len(unsafe))
}

func TestDeleteAllIgnoresNonRegularFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "dir.jpg"), 0755))

	report := DeleteAll(root, []string{"dir.jpg"})
	assert.Empty(t, report.Deleted)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "not a regular file")
	assert.DirExists(t, filepath.Join(root, "dir.jpg"))
}

func TestDeleteAllContinuesPastErrors(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "dir.jpg"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.jpg"), []byte("img"), 0644))

	report := DeleteAll(root, []string{"dir.jpg", "b.jpg"})
	assert.Equal(t, []string{"b.jpg"}, report.Deleted, "one bad file never aborts the batch")
	assert.Len(t, report.Errors, 1)
}
