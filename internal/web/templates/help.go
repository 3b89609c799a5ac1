package templates

import (
	_ "embed"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed help.md
var helpMarkdown []byte

var (
	helpOnce sync.Once
	helpHTML string
)

// renderHelp converts the embedded help text to HTML.
func renderHelp() string {
	helpOnce.Do(func() {
		p := parser.NewWithExtensions(parser.CommonExtensions)
		r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
		helpHTML = string(markdown.ToHTML(helpMarkdown, p, r))
	})
	return helpHTML
}
