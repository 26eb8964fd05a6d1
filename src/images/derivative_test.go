package images

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsFit(t *testing.T) {
	b := Bounds{300, 300}

	w, h := b.fit(500, 500)
	assert.Equal(t, 300, w)
	assert.Equal(t, 300, h)

	w, h = b.fit(600, 300)
	assert.Equal(t, 300, w)
	assert.Equal(t, 150, h)

	w, h = b.fit(100, 50)
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h, "images within the box are never upscaled")

	w, h = b.fit(10000, 1)
	assert.Equal(t, 300, w)
	assert.Equal(t, 1, h, "dimensions never collapse to zero")
}

func TestGenerateDerivative(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "big.png")
	require.NoError(t, os.WriteFile(src, pngBytes(t, 500, 400), 0644))

	dest := filepath.Join(root, "thumb_big.png")
	require.NoError(t, GenerateDerivative(src, dest, PostBounds))

	w, h := decodeSize(t, dest)
	assert.LessOrEqual(t, w, 300)
	assert.LessOrEqual(t, h, 300)
	assert.Equal(t, 300, w)
	assert.Equal(t, 240, h, "aspect ratio is preserved")
}

func TestGenerateDerivativeOverwrites(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "big.jpg")
	require.NoError(t, os.WriteFile(src, jpegBytes(t, 600, 600), 0644))

	dest := filepath.Join(root, "thumb_big.jpg")
	require.NoError(t, os.WriteFile(dest, []byte("stale"), 0644))
	require.NoError(t, GenerateDerivative(src, dest, PostBounds))

	w, _ := decodeSize(t, dest)
	assert.Equal(t, 300, w)
}

func TestGenerateDerivativeFailures(t *testing.T) {
	root := t.TempDir()

	err := GenerateDerivative(filepath.Join(root, "nope.png"), filepath.Join(root, "out.png"), PostBounds)
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)

	corrupt := filepath.Join(root, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not an image"), 0644))
	err = GenerateDerivative(corrupt, filepath.Join(root, "out.png"), PostBounds)
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, StorageIOFailure, storageErr.Failure)
}

func TestProcessCustomDerivativeInPlace(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "custom.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 450, 450), 0644))

	require.NoError(t, ProcessCustomDerivative(path, ProfileBounds))

	w, h := decodeSize(t, path)
	assert.Equal(t, 200, w)
	assert.Equal(t, 200, h)
}
