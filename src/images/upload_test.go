package images

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadPostImage(t *testing.T) {
	root := t.TempDir()

	result, err := Upload(context.Background(), UploadInput{
		Root: root,
		Original: FormFile{
			Name:        "My Base Tour.jpg",
			ContentType: "image/jpeg",
			Content:     jpegBytes(t, 500, 500),
		},
		Naming:   ThumbPrefixNaming{},
		Bounds:   PostBounds,
		MaxBytes: DefaultMaxImageSize,
	})
	require.NoError(t, err)

	assert.Equal(t, "My_Base_Tour.jpg", result.Original)
	assert.Equal(t, "thumb_My_Base_Tour.jpg", result.Derivative)
	assert.Equal(t, 500, result.Width)
	assert.Equal(t, 500, result.Height)

	assert.FileExists(t, filepath.Join(root, result.Original))
	w, h := decodeSize(t, filepath.Join(root, result.Derivative))
	assert.LessOrEqual(t, w, 300)
	assert.LessOrEqual(t, h, 300)
}

func TestUploadProfilePicture(t *testing.T) {
	root := t.TempDir()

	result, err := Upload(context.Background(), UploadInput{
		Root: root,
		Original: FormFile{
			Name:        "me.png",
			ContentType: "image/png",
			Content:     pngBytes(t, 400, 400),
		},
		Naming:   OwnerPairNaming{OwnerID: 3},
		Bounds:   ProfileBounds,
		MaxBytes: DefaultMaxImageSize,
	})
	require.NoError(t, err)

	assert.Equal(t, "3_profile.png", result.Original)
	assert.Equal(t, "3_thumb.png", result.Derivative)
	assert.FileExists(t, filepath.Join(root, "3_profile.png"))
	assert.FileExists(t, filepath.Join(root, "3_thumb.png"))
}

func TestDerivativeNameFor(t *testing.T) {
	// Most formats re-encode as themselves, so the name stands.
	assert.Equal(t, "thumb_base.jpg", derivativeNameFor("thumb_base.jpg", "jpeg"))
	assert.Equal(t, "thumb_base.gif", derivativeNameFor("thumb_base.gif", "gif"))

	// webp derivatives are written as PNG and must not claim to be webp.
	assert.Equal(t, "thumb_base.png", derivativeNameFor("thumb_base.webp", "webp"))
	assert.Equal(t, "7_thumb.png", derivativeNameFor("7_thumb.webp", "webp"))
}

func TestUploadRejectsBadOriginal(t *testing.T) {
	root := t.TempDir()

	_, err := Upload(context.Background(), UploadInput{
		Root: root,
		Original: FormFile{
			Name:        "x.jpg",
			ContentType: "image/jpeg",
			Content:     pngBytes(t, 10, 10), // spoofed
		},
		Naming:   ThumbPrefixNaming{},
		Bounds:   PostBounds,
		MaxBytes: DefaultMaxImageSize,
	})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, RejectFormatMismatch, valErr.Reason)

	entries, readErr := os.ReadDir(root)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "nothing may be written when validation fails")
}

func TestUploadCustomDerivative(t *testing.T) {
	root := t.TempDir()

	result, err := Upload(context.Background(), UploadInput{
		Root: root,
		Original: FormFile{
			Name:        "spawn.png",
			ContentType: "image/png",
			Content:     pngBytes(t, 500, 500),
		},
		Derivative: &FormFile{
			Name:        "spawn_small.png",
			ContentType: "image/png",
			Content:     pngBytes(t, 320, 320),
		},
		Naming:   ThumbPrefixNaming{},
		Bounds:   PostBounds,
		MaxBytes: DefaultMaxImageSize,
	})
	require.NoError(t, err)

	w, h := decodeSize(t, filepath.Join(root, result.Derivative))
	assert.Equal(t, 300, w)
	assert.Equal(t, 300, h, "custom derivatives get resized to the same box")
}

func TestUploadCompensatesWhenDerivativeFails(t *testing.T) {
	root := t.TempDir()

	_, err := Upload(context.Background(), UploadInput{
		Root: root,
		Original: FormFile{
			Name:        "good.png",
			ContentType: "image/png",
			Content:     pngBytes(t, 100, 100),
		},
		Derivative: &FormFile{
			Name:        "bad.png",
			ContentType: "image/png",
			Content:     []byte("garbage"),
		},
		Naming:   ThumbPrefixNaming{},
		Bounds:   PostBounds,
		MaxBytes: DefaultMaxImageSize,
	})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, RejectNotAnImage, valErr.Reason)

	assert.NoFileExists(t, filepath.Join(root, "good.png"),
		"the original written in the same request must be rolled back")
	assert.NoFileExists(t, filepath.Join(root, "thumb_good.png"))
}

func TestUploadReportsStorageErrors(t *testing.T) {
	root := t.TempDir()
	// A file where the root should be makes every write fail.
	blocked := filepath.Join(root, "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("in the way"), 0644))

	_, err := Upload(context.Background(), UploadInput{
		Root: blocked,
		Original: FormFile{
			Name:        "x.png",
			ContentType: "image/png",
			Content:     pngBytes(t, 10, 10),
		},
		Naming:   ThumbPrefixNaming{},
		Bounds:   PostBounds,
		MaxBytes: DefaultMaxImageSize,
	})

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	var valErr *ValidationError
	assert.False(t, errors.As(err, &valErr), "storage trouble is not the user's fault")
}
