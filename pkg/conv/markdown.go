package conv

import (
	"html"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions  = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags   = mdhtml.CommonFlags | mdhtml.HrefTargetBlank
	tgPolicy    = bluemonday.NewPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

func init() {
	// Allowed tags https://core.telegram.org/bots/api#html-style
	tgPolicy.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	tgPolicy.AllowAttrs("href").OnElements("a")
	tgPolicy.AllowAttrs("class").OnElements("code")
}

func render(md []byte) []byte {
	p := parser.NewWithExtensions(extensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: htmlFlags})
	return markdown.Render(p.Parse(md), renderer)
}

// MarkdownToTelegramHTML renders md and keeps only the tags Telegram accepts.
func MarkdownToTelegramHTML(md []byte) string {
	return string(tgPolicy.SanitizeBytes(render(md)))
}

// MarkdownToText renders md and drops all markup, for terminals.
func MarkdownToText(md []byte) string {
	stripped := plainPolicy.SanitizeBytes(render(md))
	return strings.TrimSpace(html.UnescapeString(string(stripped)))
}
