package extract

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	bulletRe   = regexp.MustCompile(`^\s*(?:[-*+•]|\d{1,3}[.)])\s+(.+)$`)
	numberedRe = regexp.MustCompile(`^\s*\d{1,3}[.)]\s+(.+)$`)
	headerRe   = regexp.MustCompile(`^\s*(#{1,6})\s+(.+?)\s*#*\s*$`)
	boldRe     = regexp.MustCompile(`^\s*\*\*(.+?)\*\*:?\s*$`)
	labelRe    = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z /&-]{1,60}):\s*$`)
)

// Heading is a heading found in free text and the lines below it.
type Heading struct {
	Level int
	Text  string
	Body  string
}

// List returns the bullet and numbered items in text, in order, with the
// markers, wrapping quotes and emphasis removed.
func List(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		m := bulletRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if item := cleanItem(m[1]); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Groups splits text into bullet lists keyed by the heading above them.
// Keys are normalized with Key. Items before any heading are dropped.
func Groups(text string) map[string][]string {
	groups := make(map[string][]string)
	key := ""
	for _, line := range strings.Split(text, "\n") {
		if label, ok := headingText(line); ok {
			key = Key(label)
			continue
		}
		if key == "" {
			continue
		}
		if m := bulletRe.FindStringSubmatch(line); m != nil {
			if item := cleanItem(m[1]); item != "" {
				groups[key] = append(groups[key], item)
			}
		}
	}
	return groups
}

// Key lowercases s and drops everything but letters and digits, so
// "Related Keywords:" and "related_keywords" compare equal.
func Key(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Headings returns the markdown headings in text with their bodies. When
// text has no markdown headings, top-level numbered lines are treated as
// level 2 headings.
func Headings(text string) []Heading {
	lines := strings.Split(text, "\n")
	var out []Heading
	var body []string
	flush := func() {
		if len(out) > 0 {
			out[len(out)-1].Body = strings.TrimSpace(strings.Join(body, "\n"))
		}
		body = body[:0]
	}

	for _, line := range lines {
		if m := headerRe.FindStringSubmatch(line); m != nil {
			flush()
			out = append(out, Heading{Level: len(m[1]), Text: cleanItem(m[2])})
			continue
		}
		body = append(body, line)
	}
	flush()
	if len(out) > 0 {
		return out
	}

	body = body[:0]
	for _, line := range lines {
		if m := numberedRe.FindStringSubmatch(line); m != nil && !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			flush()
			out = append(out, Heading{Level: 2, Text: cleanItem(m[1])})
			continue
		}
		body = append(body, line)
	}
	flush()
	return out
}

// Prose returns text with fences and a leading conversational line
// removed. It returns "" when nothing substantive remains.
func Prose(text string) string {
	text = strings.TrimSpace(StripFences(strings.TrimSpace(text)))
	lines := strings.Split(text, "\n")
	for len(lines) > 0 {
		first := strings.ToLower(strings.TrimSpace(lines[0]))
		if first == "" || (chatter(first) && strings.HasSuffix(first, ":")) {
			lines = lines[1:]
			continue
		}
		break
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func headingText(line string) (string, bool) {
	if m := headerRe.FindStringSubmatch(line); m != nil {
		return m[2], true
	}
	if m := boldRe.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if bulletRe.MatchString(line) {
		return "", false
	}
	if m := labelRe.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return "", false
}

func cleanItem(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_`")
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}
