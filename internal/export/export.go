// Package export renders a session's article for publishing.
package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/jorge-barreto/narrate/internal/brief"
	"github.com/jorge-barreto/narrate/internal/outline"
)

// Format is an output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts "markdown", "md" and "html".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "markdown", "md", "":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown export format %q (must be markdown or html)", s)
}

// parts pairs each content part with the outline phase that feeds it.
var parts = []struct {
	name  string
	phase outline.Phase
}{
	{"intro", outline.PhaseResonance},
	{"body", outline.PhaseRelevance},
	{"conclusion", outline.PhaseResults},
}

// Markdown renders the article: the selected headline as the title, then
// intro, body and conclusion. A part with no drafted text yet falls back to
// its outline sections as headings with the author's notes.
func Markdown(b *brief.Brief) string {
	var out strings.Builder
	if h, ok := b.SelectedHeadline(); ok {
		fmt.Fprintf(&out, "# %s\n\n", h.Text)
	}
	for _, p := range parts {
		text := strings.TrimSpace(b.Content(p.name))
		if text != "" {
			out.WriteString(text)
			out.WriteString("\n\n")
			continue
		}
		for _, s := range b.Outline.ForPhase(p.phase) {
			fmt.Fprintf(&out, "%s %s\n\n", s.Level.Markdown(), s.Title)
			if ctx := strings.TrimSpace(s.Context); ctx != "" {
				fmt.Fprintf(&out, "> %s\n\n", strings.ReplaceAll(ctx, "\n", "\n> "))
			}
		}
	}
	return strings.TrimRight(out.String(), "\n") + "\n"
}

// HTMLFragment converts the Markdown rendering to HTML.
func HTMLFragment(b *brief.Brief) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(b)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const page = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
<article>
%s</article>
</body>
</html>
`

// HTML renders a standalone HTML page.
func HTML(b *brief.Brief) (string, error) {
	body, err := HTMLFragment(b)
	if err != nil {
		return "", err
	}
	title := b.TargetKeyword
	if h, ok := b.SelectedHeadline(); ok {
		title = h.Text
	}
	return fmt.Sprintf(page, html.EscapeString(title), body), nil
}

// Write renders b in format to w.
func Write(w io.Writer, b *brief.Brief, format Format) error {
	var out string
	switch format {
	case FormatHTML:
		var err error
		if out, err = HTML(b); err != nil {
			return fmt.Errorf("rendering html: %w", err)
		}
	default:
		out = Markdown(b)
	}
	_, err := io.WriteString(w, out)
	return err
}
