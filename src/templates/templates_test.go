package templates

import (
	"testing"
	"time"

	"git.blockward.net/bw/blockward/src/config"
	"git.blockward.net/bw/blockward/src/images"
	"git.blockward.net/bw/blockward/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllTemplatesParse(t *testing.T) {
	_, errs := getTemplatesFromFS(embeddedTemplateFs)
	for name, err := range errs {
		t.Errorf("%s: %v", name, err)
	}
}

func TestPagesRender(t *testing.T) {
	config.Config.DevConfig.LiveTemplates = false
	Init()

	base := BaseData{Title: "Test"}

	for name, data := range map[string]any{
		"error.html": base,
		"404.html": struct {
			BaseData
			Wanted string
		}{base, "http://localhost/nope"},
		"reject.html": struct {
			BaseData
			RejectReason string
		}{base, "The file is too big."},
	} {
		t.Run(name, func(t *testing.T) {
			err := GetTemplate(name).Execute(nopWriter{}, data)
			assert.NoError(t, err)
		})
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestSourcesIncludeTemplates(t *testing.T) {
	sources := Sources()
	require.NotEmpty(t, sources)

	var found bool
	for _, src := range sources {
		if len(src) > 0 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPostToTemplate(t *testing.T) {
	thumb := "cool_build_thumb.png"
	post := &models.Post{
		ID:        7,
		Title:     "My cool build",
		Thumbnail: &thumb,
		Posted:    time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
	author := &models.User{ID: 3, Username: "steve"}

	result := PostToTemplate(post, author)
	assert.Equal(t, "My cool build", result.Title)
	assert.Contains(t, result.Url, "/post/7")
	assert.Contains(t, result.ThumbnailUrl, "/media/posts/cool_build_thumb.png")
	require.NotNil(t, result.Author)
	assert.Contains(t, result.Author.ProfileUrl, "/m/steve")
	assert.Empty(t, result.PortraitUrl)
}

func TestAssetFileToTemplate(t *testing.T) {
	file := images.FileInfo{Name: "grass_divider.png", Size: 1234}

	static := AssetFileToTemplate("static", file, true)
	assert.Contains(t, static.Url, "/public/static/images/grass_divider.png")
	assert.True(t, static.Referenced)

	media := AssetFileToTemplate("posts", file, false)
	assert.Contains(t, media.Url, "/media/posts/grass_divider.png")
	assert.False(t, media.Referenced)
}
