package dashboard

import (
	"bytes"
	"html/template"
	"log"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
)

// newMarkdown returns the renderer for notification content. Raw HTML in
// content is not passed through.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
	)
}

// renderContent renders notification content as markdown. On failure the
// content is shown as escaped text.
func (d *Dashboard) renderContent(content string) template.HTML {
	var buf bytes.Buffer
	if err := d.md.Convert([]byte(content), &buf); err != nil {
		log.Printf("dashboard: rendering content: %v", err)
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(buf.String())
}
