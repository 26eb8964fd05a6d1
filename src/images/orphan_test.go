package images

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("0123456789"), 0644))
	}
}

func TestInventory(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.jpg", "b.png")
	require.NoError(t, os.Mkdir(filepath.Join(root, "subdir"), 0755))

	files, err := Inventory(root)
	require.NoError(t, err)
	require.Len(t, files, 2, "directories are not part of the inventory")
	assert.Equal(t, int64(10), files[0].Size)
	assert.False(t, files[0].ModTime.IsZero())
}

func TestInventoryMissingRoot(t *testing.T) {
	files, err := Inventory(filepath.Join(t.TempDir(), "never-created"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestOrphans(t *testing.T) {
	inventory := []FileInfo{{Name: "used.jpg"}, {Name: "stray.jpg"}, {Name: "thumb_used.jpg"}}
	referenced := map[string]struct{}{
		"used.jpg":       {},
		"thumb_used.jpg": {},
	}

	orphans := Orphans(inventory, referenced)
	require.Len(t, orphans, 1)
	assert.Equal(t, "stray.jpg", orphans[0].Name)
}

func TestPurge(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "used.jpg", "stray1.jpg", "stray2.jpg")

	referenced := map[string]struct{}{"used.jpg": {}}
	inventory, err := Inventory(root)
	require.NoError(t, err)
	orphans := Orphans(inventory, referenced)

	report := Purge(context.Background(), root, orphans, func(name string) (bool, error) {
		return false, nil
	})
	assert.ElementsMatch(t, []string{"stray1.jpg", "stray2.jpg"}, report.Removed)
	assert.Equal(t, int64(20), report.BytesReclaimed)
	assert.Empty(t, report.Errors)
	assert.FileExists(t, filepath.Join(root, "used.jpg"))
}

func TestPurgeIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "stray.jpg")

	runPurge := func() PurgeReport {
		inventory, err := Inventory(root)
		require.NoError(t, err)
		orphans := Orphans(inventory, map[string]struct{}{})
		return Purge(context.Background(), root, orphans, nil)
	}

	first := runPurge()
	assert.Len(t, first.Removed, 1)

	second := runPurge()
	assert.Empty(t, second.Removed, "a second run on an unchanged root removes nothing")
	assert.Zero(t, second.BytesReclaimed)
}

func TestPurgeRecheckSavesFreshUploads(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "justuploaded.jpg", "stray.jpg")

	inventory, err := Inventory(root)
	require.NoError(t, err)
	orphans := Orphans(inventory, map[string]struct{}{})

	report := Purge(context.Background(), root, orphans, func(name string) (bool, error) {
		// Simulates an upload that committed between the scan and the purge.
		return name == "justuploaded.jpg", nil
	})
	assert.Equal(t, []string{"stray.jpg"}, report.Removed)
	assert.FileExists(t, filepath.Join(root, "justuploaded.jpg"))
}

func TestPurgeKeepsFilesWhenRecheckFails(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "stray.jpg")

	inventory, err := Inventory(root)
	require.NoError(t, err)
	orphans := Orphans(inventory, map[string]struct{}{})

	report := Purge(context.Background(), root, orphans, func(name string) (bool, error) {
		return false, assert.AnError
	})
	assert.Empty(t, report.Removed)
	assert.Len(t, report.Errors, 1)
	assert.FileExists(t, filepath.Join(root, "stray.jpg"))
}

func TestPurgeStopsOnCanceledContext(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "stray.jpg")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inventory, err := Inventory(root)
	require.NoError(t, err)
	report := Purge(ctx, root, Orphans(inventory, nil), nil)
	assert.Empty(t, report.Removed)
	assert.FileExists(t, filepath.Join(root, "stray.jpg"))
}
