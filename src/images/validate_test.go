package images

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsMatchingFormats(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		content     []byte
		format      string
	}{
		{"pic.png", "image/png", pngBytes(t, 10, 10), "png"},
		{"pic.jpg", "image/jpeg", jpegBytes(t, 10, 10), "jpeg"},
		{"pic.jpeg", "image/jpeg", jpegBytes(t, 10, 10), "jpeg"},
		{"pic.gif", "image/gif", gifBytes(t, 10, 10), "gif"},
	}
	for _, c := range cases {
		v := Validate(bytes.NewReader(c.content), c.name, c.contentType, DefaultMaxImageSize)
		assert.True(t, v.Accepted, "%s should be accepted: %s", c.name, v.Message)
		assert.Equal(t, c.format, v.Format)
		assert.Equal(t, 10, v.Width)
		assert.Equal(t, 10, v.Height)
	}
}

func TestValidateRejectsSpoofedExtension(t *testing.T) {
	png := pngBytes(t, 10, 10)

	v := Validate(bytes.NewReader(png), "x.jpg", "image/jpeg", DefaultMaxImageSize)
	assert.False(t, v.Accepted)
	assert.Equal(t, RejectFormatMismatch, v.Reason)

	v = Validate(bytes.NewReader(png), "x.png", "image/png", DefaultMaxImageSize)
	assert.True(t, v.Accepted)
}

func TestValidateRejectsNonImages(t *testing.T) {
	v := Validate(bytes.NewReader([]byte("MZ\x90\x00definitely an executable")), "x.png", "image/png", DefaultMaxImageSize)
	assert.False(t, v.Accepted)
	assert.Equal(t, RejectNotAnImage, v.Reason)
}

func TestValidateMissingInputs(t *testing.T) {
	v := Validate(nil, "x.png", "image/png", DefaultMaxImageSize)
	assert.Equal(t, RejectMissingFile, v.Reason)

	v = Validate(bytes.NewReader(pngBytes(t, 4, 4)), "", "image/png", DefaultMaxImageSize)
	assert.Equal(t, RejectMissingFile, v.Reason)

	v = Validate(bytes.NewReader(nil), "x.png", "image/png", DefaultMaxImageSize)
	assert.False(t, v.Accepted)
	assert.Equal(t, RejectMissingFile, v.Reason)
}

func TestValidateExtensionAndMime(t *testing.T) {
	png := pngBytes(t, 4, 4)

	v := Validate(bytes.NewReader(png), "x.bmp", "image/bmp", DefaultMaxImageSize)
	assert.Equal(t, RejectBadExtension, v.Reason)

	v = Validate(bytes.NewReader(png), "x", "image/png", DefaultMaxImageSize)
	assert.Equal(t, RejectBadExtension, v.Reason)

	v = Validate(bytes.NewReader(png), "x.png", "application/octet-stream", DefaultMaxImageSize)
	assert.Equal(t, RejectBadMimeType, v.Reason)
}

func TestValidateSizeLimits(t *testing.T) {
	png := pngBytes(t, 10, 10)

	v := Validate(bytes.NewReader(png), "x.png", "image/png", int64(len(png)))
	assert.True(t, v.Accepted, "a file exactly at the limit is fine")

	v = Validate(bytes.NewReader(png), "x.png", "image/png", int64(len(png))-1)
	assert.False(t, v.Accepted)
	assert.Equal(t, RejectTooLarge, v.Reason)
}

func TestValidateRestoresStreamPosition(t *testing.T) {
	png := pngBytes(t, 10, 10)
	r := bytes.NewReader(png)

	v := Validate(r, "x.png", "image/png", DefaultMaxImageSize)
	require.True(t, v.Accepted)

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, png, rest, "the caller should be able to re-read the whole stream")
}
