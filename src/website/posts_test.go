package website

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"path/filepath"
	"testing"

	"git.blockward.net/bw/blockward/src/images"
	"git.blockward.net/bw/blockward/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplacedPostFiles(t *testing.T) {
	portrait := "My_Base_Tour.jpg"
	thumbnail := "thumb_My_Base_Tour.jpg"
	post := &models.Post{Portrait: &portrait, Thumbnail: &thumbnail}

	t.Run("replacement with new names", func(t *testing.T) {
		assert.Equal(t,
			[]string{"My_Base_Tour.jpg", "thumb_My_Base_Tour.jpg"},
			replacedPostFiles(post, "Corrected.jpg", "thumb_Corrected.jpg"))
	})

	t.Run("replacement reusing the same names", func(t *testing.T) {
		assert.Empty(t, replacedPostFiles(post, portrait, thumbnail))
	})

	t.Run("record deletion keeps nothing", func(t *testing.T) {
		assert.Equal(t,
			[]string{"My_Base_Tour.jpg", "thumb_My_Base_Tour.jpg"},
			replacedPostFiles(post))
	})
}

// Re-exporting and re-uploading a corrected file produces the same sanitized
// name, so the upload overwrites in place. The cleanup of the old slot
// values must leave those files alone or the post loses its images.
func TestPostImageReplacementWithSameName(t *testing.T) {
	root := t.TempDir()

	upload := func() images.UploadResult {
		result, err := images.Upload(context.Background(), images.UploadInput{
			Root: root,
			Original: images.FormFile{
				Name:        "My Base Tour.jpg",
				ContentType: "image/jpeg",
				Content:     testJpegBytes(t, 400, 400),
			},
			Naming:   images.ThumbPrefixNaming{},
			Bounds:   images.PostBounds,
			MaxBytes: images.DefaultMaxImageSize,
		})
		require.NoError(t, err)
		return result
	}

	first := upload()
	post := &models.Post{Portrait: &first.Original, Thumbnail: &first.Derivative}

	second := upload()
	require.Equal(t, first.Original, second.Original)

	report := images.DeleteAll(root, replacedPostFiles(post, second.Original, second.Derivative))
	assert.Empty(t, report.Deleted)
	assert.Empty(t, report.Errors)

	assert.FileExists(t, filepath.Join(root, second.Original))
	assert.FileExists(t, filepath.Join(root, second.Derivative))
}

func testJpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 100, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}
