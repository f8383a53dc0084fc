package ingest

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// StripMarkdown renders markdown source down to plain text. Corpus text is
// indexed and snippeted as prose, so heading markers, emphasis and link
// syntax must not leak into FTS tokens or citation offsets.
func StripMarkdown(source string) string {
	if source == "" {
		return ""
	}
	// Cheap pre-check: most statute text carries no markup at all
	if !strings.ContainsAny(source, "#*_[`>") {
		return normalizeWhitespace(source)
	}

	src := []byte(source)
	root := markdown.Parser().Parse(text.NewReader(src))

	var buf strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if _, ok := n.(*ast.Paragraph); ok {
				buf.WriteString("\n\n")
			}
			if _, ok := n.(*ast.Heading); ok {
				buf.WriteString("\n\n")
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.AutoLink:
			buf.Write(node.URL(src))
		}
		return ast.WalkContinue, nil
	})

	return normalizeWhitespace(buf.String())
}

// normalizeWhitespace trims the text and collapses runs of blank lines
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blank = true
			continue
		}
		if blank && len(out) > 0 {
			out = append(out, "")
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
