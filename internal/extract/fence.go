package extract

import (
	"regexp"
	"strings"
)

// Block is one fenced code block from model output.
type Block struct {
	Lang    string // info string after the opening fence, e.g. "json"
	Content string // content between the fences
}

var fenceOpenRe = regexp.MustCompile("^```\\s*([\\w+-]*)")

// Blocks extracts fenced code blocks from text in order of appearance.
// An unterminated final block is returned with whatever content it has.
func Blocks(text string) []Block {
	var blocks []Block
	var current *Block
	var buf strings.Builder

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if current != nil {
			if trimmed == "```" {
				current.Content = buf.String()
				blocks = append(blocks, *current)
				current = nil
				buf.Reset()
				continue
			}
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(line)
			continue
		}
		if m := fenceOpenRe.FindStringSubmatch(trimmed); m != nil {
			current = &Block{Lang: strings.ToLower(m[1])}
			buf.Reset()
		}
	}
	if current != nil && buf.Len() > 0 {
		current.Content = buf.String()
		blocks = append(blocks, *current)
	}
	return blocks
}

// StripFences returns the content of the first fenced block, or text
// unchanged when it contains no fence.
func StripFences(text string) string {
	if !strings.Contains(text, "```") {
		return text
	}
	blocks := Blocks(text)
	if len(blocks) == 0 {
		return strings.ReplaceAll(text, "```", "")
	}
	for _, b := range blocks {
		if b.Lang == "json" {
			return b.Content
		}
	}
	return blocks[0].Content
}
