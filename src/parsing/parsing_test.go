package parsing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdown(t *testing.T) {
	t.Run("fenced code blocks", func(t *testing.T) {
		html := ParseMarkdown("```go\nfunc main() {\n\tfmt.Println(\"Hello, world!\")\n}\n```", RealMarkdown)
		t.Log(html)
		assert.Equal(t, 1, strings.Count(html, "<pre"))
		assert.Contains(t, html, `class="bw-code"`)
		assert.Contains(t, html, "Println")
		assert.Contains(t, html, "Hello, world!")
	})
	t.Run("bare urls get linked", func(t *testing.T) {
		html := ParseMarkdown("check out https://example.com/seed for the seed", RealMarkdown)
		t.Log(html)
		assert.Contains(t, html, `<a href="https://example.com/seed"`)
	})
	t.Run("plaintext strips formatting", func(t *testing.T) {
		text := ParseMarkdown("some *fancy* text", PlaintextMarkdown)
		t.Log(text)
		assert.NotContains(t, text, "*")
		assert.NotContains(t, text, "<")
		assert.Contains(t, text, "fancy")
	})
}

func TestLegacyBBCode(t *testing.T) {
	t.Run("[b]", func(t *testing.T) {
		html := ParseLegacy("[b]diamonds[/b]", false)
		t.Log(html)
		assert.Contains(t, html, "<b>diamonds</b>")
	})
	t.Run("[code]", func(t *testing.T) {
		html := ParseLegacy("[code]execute as @a run say hi[/code]", false)
		t.Log(html)
		assert.Equal(t, 1, strings.Count(html, "<pre"))
		assert.Contains(t, html, `class="bw-code"`)
		assert.Contains(t, html, "execute")
	})
	t.Run("[spoiler]", func(t *testing.T) {
		html := ParseLegacy("[spoiler]the dragon dies[/spoiler]", false)
		t.Log(html)
		assert.Contains(t, html, `class="spoiler"`)
		assert.Contains(t, html, "the dragon dies")
	})
	t.Run("[coords]", func(t *testing.T) {
		html := ParseLegacy("[coords]100, 64, -200[/coords]", false)
		t.Log(html)
		assert.Contains(t, html, `class="coords"`)
		assert.Contains(t, html, "100 / 64 / -200")
	})
	t.Run("[coords] garbage passes through", func(t *testing.T) {
		html := ParseLegacy("[coords]over by the big tree[/coords]", false)
		t.Log(html)
		assert.NotContains(t, html, `class="coords"`)
		assert.Contains(t, html, "over by the big tree")
	})
	t.Run("[youtube] preview and real", func(t *testing.T) {
		preview := ParseLegacy("[youtube]https://www.youtube.com/watch?v=dQw4w9WgXcQ[/youtube]", true)
		t.Log(preview)
		assert.Contains(t, preview, "img.youtube.com/vi/dQw4w9WgXcQ")

		real := ParseLegacy("[youtube]https://youtu.be/dQw4w9WgXcQ[/youtube]", false)
		t.Log(real)
		assert.Contains(t, real, "youtube-nocookie.com/embed/dQw4w9WgXcQ")
	})
}

func TestParsePostBody(t *testing.T) {
	legacy := ParsePostBody("[b]old[/b]", true, RealMarkdown)
	assert.Contains(t, legacy, "<b>old</b>")

	modern := ParsePostBody("**new**", false, RealMarkdown)
	assert.Contains(t, modern, "<strong>new</strong>")
}
