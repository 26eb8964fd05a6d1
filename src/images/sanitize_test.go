package images

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "cool_filename_txt.wow", SanitizeFilename("cool filename.txt.wow"))
	assert.Equal(t, "screenshot_2024.png", SanitizeFilename("screenshot 2024.PNG"))
	assert.Equal(t, "__hi_doggy__.jpg", SanitizeFilename("🐔 hi doggy 🐶.jpg"))
	assert.Equal(t, "no_newlines_here", SanitizeFilename("no\nnewlines\nhere"))
	assert.Equal(t, "_.etcpasswd", SanitizeFilename("../etc/passwd"))
	assert.Equal(t, "upload.png", SanitizeFilename(".png"))
	assert.Equal(t, "upload", SanitizeFilename(""))
}

func TestSanitizeFilenameCapsStem(t *testing.T) {
	long := strings.Repeat("a", 300) + ".jpeg"
	got := SanitizeFilename(long)
	assert.Equal(t, strings.Repeat("a", 100)+".jpeg", got)
}

func TestSanitizeFilenameIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"normal.jpg",
		"UPPER.JPG",
		"sp ace s.png",
		"dots.in.the.stem.gif",
		"../../../etc/passwd",
		"🐶🐶🐶.webp",
		strings.Repeat("x", 500) + ".png",
		"no-extension",
		"weird\x00bytes.png",
	}
	for _, in := range inputs {
		once := SanitizeFilename(in)
		twice := SanitizeFilename(once)
		assert.Equal(t, once, twice, "input %q", in)
		assert.NotContains(t, once, "..")
		assert.NotContains(t, once, "/")
		assert.NotContains(t, once, " ")
	}
}
