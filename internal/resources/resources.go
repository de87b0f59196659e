// Package resources holds the static educational content shown next to the
// portfolio, and renders it for the web page and the terminal.
package resources

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed topics.md
var source []byte

// Topic is one educational resource.
type Topic struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

var topics = parseTopics(source)

// Markdown returns the raw markdown document.
func Markdown() string {
	return string(source)
}

// Topics lists the resources in document order.
func Topics() []Topic {
	out := make([]Topic, len(topics))
	copy(out, topics)
	return out
}

// parseTopics reads every second level heading and the paragraph following it.
func parseTopics(src []byte) []Topic {
	root := goldmark.DefaultParser().Parse(text.NewReader(src))

	var out []Topic
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 2 {
			continue
		}
		t := Topic{Title: linesText(h, src)}
		if p, ok := h.NextSibling().(*ast.Paragraph); ok {
			t.Summary = linesText(p, src)
		}
		out = append(out, t)
	}
	return out
}

func linesText(n ast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		seg := lines.At(i)
		b.Write(bytes.TrimSpace(seg.Value(src)))
	}
	return b.String()
}

// HTML renders the resources as an HTML fragment. The document title is left
// out since the page shows its own.
func HTML() (string, error) {
	var body strings.Builder
	for _, t := range topics {
		fmt.Fprintf(&body, "### %s\n\n%s\n\n", t.Title, t.Summary)
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(body.String()), &buf); err != nil {
		return "", fmt.Errorf("could not render resources: %w", err)
	}
	return buf.String(), nil
}

// Terminal renders the whole document for a terminal. style is a glamour
// standard style name ("dark", "light", "notty", ...) or "auto".
func Terminal(style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("could not create terminal renderer: %w", err)
	}
	out, err := r.Render(Markdown())
	if err != nil {
		return "", fmt.Errorf("could not render resources: %w", err)
	}
	return out, nil
}
