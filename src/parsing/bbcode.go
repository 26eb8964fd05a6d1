package parsing

import (
	"bytes"
	"regexp"
	"strings"

	"git.blockward.net/bw/blockward/src/bwurl"
	"git.blockward.net/bw/blockward/src/oops"
	"github.com/alecthomas/chroma"
	chromahtml "github.com/alecthomas/chroma/formatters/html"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/frustra/bbcode"
)

/*
Legacy post bodies are raw bbcode from the old phpBB board. They are kept
verbatim in the database and rendered with a dedicated compiler instead of
being migrated, so the originals stay untouched.
*/

var previewBBCodeCompiler = bbcode.NewCompiler(false, false)
var realBBCodeCompiler = bbcode.NewCompiler(false, false)

var REYoutubeLong = regexp.MustCompile(`youtube\.com/watch\?.*v=(?P<vid>[a-zA-Z0-9_-]{11})`)
var REYoutubeShort = regexp.MustCompile(`youtu\.be/(?P<vid>[a-zA-Z0-9_-]{11})`)
var REYoutubeVidOnly = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// Matches "[x, y, z]"-style in-game coordinates inside a [coords] tag.
var reCoords = regexp.MustCompile(`^\s*(?P<x>-?\d+)\s*[, ]\s*(?P<y>-?\d+)\s*[, ]\s*(?P<z>-?\d+)\s*$`)

func ParseLegacy(source string, preview bool) string {
	if preview {
		return previewBBCodeCompiler.Compile(source)
	}
	return realBBCodeCompiler.Compile(source)
}

func init() {
	type attr struct {
		Name, Value string
	}

	addSimpleTag := func(name, tag string, notext bool, attrs ...attr) {
		var tagFunc bbcode.TagCompilerFunc = func(bn *bbcode.BBCodeNode) (*bbcode.HTMLTag, bool) {
			if notext {
				var newChildren []*bbcode.BBCodeNode
				for _, child := range bn.Children {
					if child.ID != bbcode.TEXT {
						newChildren = append(newChildren, child)
					}
				}
				bn.Children = newChildren
			}

			out := bbcode.NewHTMLTag("")
			out.Name = tag
			for _, a := range attrs {
				out.Attrs[a.Name] = a.Value
			}
			return out, true
		}
		previewBBCodeCompiler.SetTag(name, tagFunc)
		realBBCodeCompiler.SetTag(name, tagFunc)
	}
	addTag := func(name string, f bbcode.TagCompilerFunc) {
		previewBBCodeCompiler.SetTag(name, f)
		realBBCodeCompiler.SetTag(name, f)
	}

	previewBBCodeCompiler.SetTag("youtube", makeYoutubeBBCodeFunc(true))
	realBBCodeCompiler.SetTag("youtube", makeYoutubeBBCodeFunc(false))

	addSimpleTag("h1", "h1", false)
	addSimpleTag("h2", "h2", false)
	addSimpleTag("h3", "h3", false)
	addSimpleTag("m", "span", false, attr{"class", "monospace"})
	addSimpleTag("ol", "ol", true)
	addSimpleTag("ul", "ul", true)
	addSimpleTag("li", "li", false)
	addSimpleTag("spoiler", "span", false, attr{"class", "spoiler"})
	addSimpleTag("table", "table", true)
	addSimpleTag("tr", "tr", true)
	addSimpleTag("th", "th", false)
	addSimpleTag("td", "td", false)

	addTag("quote", func(bn *bbcode.BBCodeNode) (*bbcode.HTMLTag, bool) {
		cite := bn.GetOpeningTag().Value
		if cite == "" {
			out := bbcode.NewHTMLTag("")
			out.Name = "blockquote"
			return out, true
		} else {
			out := bbcode.NewHTMLTag("")
			out.Name = "blockquote"
			out.Attrs["cite"] = cite

			a := bbcode.NewHTMLTag("")
			a.Name = "a"
			a.Attrs = map[string]string{
				"href":  bwurl.BuildUserProfile(cite),
				"class": "quotewho",
			}
			a.AppendChild(bbcode.NewHTMLTag(cite))

			br := bbcode.NewHTMLTag("")
			br.Name = "br"

			out.AppendChild(a)
			out.AppendChild(br)

			return out, true
		}
	})

	addTag("coords", func(bn *bbcode.BBCodeNode) (*bbcode.HTMLTag, bool) {
		contents := bbcode.CompileText(bn)
		m := reCoords.FindStringSubmatch(contents)
		if m == nil {
			return bbcode.NewHTMLTag(contents), false
		}

		out := bbcode.NewHTMLTag("")
		out.Name = "span"
		out.Attrs["class"] = "coords"

		x := m[reCoords.SubexpIndex("x")]
		y := m[reCoords.SubexpIndex("y")]
		z := m[reCoords.SubexpIndex("z")]
		out.AppendChild(bbcode.NewHTMLTag(x + " / " + y + " / " + z))

		return out, false
	})

	addTag("code", func(bn *bbcode.BBCodeNode) (*bbcode.HTMLTag, bool) {
		lang := ""
		if tagvalue := bn.GetOpeningTag().Value; tagvalue != "" {
			lang = tagvalue
		} else if arglang, ok := bn.GetOpeningTag().Args["language"]; ok {
			lang = arglang
		}

		text := bbcode.CompileText(bn)
		text = strings.TrimPrefix(text, "\n")

		var lexer chroma.Lexer
		if lang != "" {
			lexer = lexers.Get(lang)
		}
		if lexer == nil {
			lexer = lexers.Analyse(text)
		}
		if lexer == nil {
			lexer = lexers.Fallback
		}

		iterator, err := lexer.Tokenise(nil, text)
		if err != nil {
			panic(oops.New(err, "failed to tokenize bbcode"))
		}

		var result bytes.Buffer
		formatter := chromahtml.New(BWChromaOptions...)
		formatter.Format(&result, styles.Monokai, iterator)

		out := bbcode.NewHTMLTag("")
		out.Name = "pre"
		out.Attrs["class"] = "bw-code"

		child := bbcode.NewHTMLTag(result.String())
		child.Raw = true
		out.AppendChild(child)

		return out, false
	})
}

func makeYoutubeBBCodeFunc(preview bool) bbcode.TagCompilerFunc {
	return func(bn *bbcode.BBCodeNode) (*bbcode.HTMLTag, bool) {
		contents := bbcode.CompileText(bn)
		if contents == "" {
			return bbcode.NewHTMLTag("<missing video URL>"), false
		}

		vid := ""

		if m := REYoutubeLong.FindStringSubmatch(contents); m != nil {
			vid = m[REYoutubeLong.SubexpIndex("vid")]
		} else if m := REYoutubeShort.FindStringSubmatch(contents); m != nil {
			vid = m[REYoutubeShort.SubexpIndex("vid")]
		} else if REYoutubeVidOnly.MatchString(contents) {
			vid = contents
		}

		if vid == "" {
			return bbcode.NewHTMLTag("<bad video URL>"), false
		}

		if preview {
			out := bbcode.NewHTMLTag("")
			out.Name = "div"
			out.Attrs["class"] = "mw6"

			img := bbcode.NewHTMLTag("")
			img.Name = "img"
			img.Attrs = map[string]string{
				"src": "https://img.youtube.com/vi/" + vid + "/hqdefault.jpg",
			}

			out.AppendChild(img)

			return out, false
		}

		out := bbcode.NewHTMLTag("")
		out.Name = "div"
		out.Attrs["class"] = "mw6"

		ratio := bbcode.NewHTMLTag("")
		ratio.Name = "div"
		ratio.Attrs["class"] = "aspect-ratio aspect-ratio--16x9"

		iframe := bbcode.NewHTMLTag("")
		iframe.Name = "iframe"
		iframe.Attrs = map[string]string{
			"class":           "aspect-ratio--object",
			"src":             "https://www.youtube-nocookie.com/embed/" + vid,
			"frameborder":     "0",
			"allowfullscreen": "",
		}
		// An iframe with no closing tag confuses browsers.
		iframe.AppendChild(nil)

		ratio.AppendChild(iframe)
		out.AppendChild(ratio)

		return out, false
	}
}
