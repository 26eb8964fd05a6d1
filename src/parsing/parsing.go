package parsing

import (
	"bytes"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/util"
	"mvdan.cc/xurls/v2"
)

// Used for rendering real-time previews of post content.
var PreviewMarkdown = goldmark.New(
	goldmark.WithExtensions(makeGoldmarkExtensions()...),
)

// Used for generating the final HTML for a post.
var RealMarkdown = goldmark.New(
	goldmark.WithExtensions(makeGoldmarkExtensions()...),
)

// Used for generating plain-text summaries of posts.
var PlaintextMarkdown = goldmark.New(
	goldmark.WithExtensions(makeGoldmarkExtensions()...),
	goldmark.WithRenderer(plaintextRenderer{}),
)

func ParseMarkdown(source string, md goldmark.Markdown) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		panic(err)
	}

	return buf.String()
}

// Renders a post body. Posts imported from the old site are bbcode; everything
// written since is markdown.
func ParsePostBody(body string, legacy bool, md goldmark.Markdown) string {
	if legacy {
		return ParseLegacy(body, md == PreviewMarkdown)
	}
	return ParseMarkdown(body, md)
}

func makeGoldmarkExtensions() []goldmark.Extender {
	return []goldmark.Extender{
		extension.GFM,
		extension.NewLinkify(
			extension.WithLinkifyURLRegexp(xurls.Strict()),
		),
		highlightExtension,
	}
}

var highlightExtension = highlighting.NewHighlighting(
	highlighting.WithFormatOptions(BWChromaOptions...),
	highlighting.WithWrapperRenderer(func(w util.BufWriter, context highlighting.CodeBlockContext, entering bool) {
		if entering {
			w.WriteString(`<pre class="bw-code">`)
		} else {
			w.WriteString(`</pre>`)
		}
	}),
)
