package extract

import (
	"encoding/json"
	"strings"
)

// Tier says which parse produced a Result.
type Tier int

const (
	TierNone Tier = iota
	TierJSON
	TierHeuristic
)

func (t Tier) String() string {
	switch t {
	case TierJSON:
		return "json"
	case TierHeuristic:
		return "heuristic"
	}
	return "none"
}

// Result is the outcome of parsing a model response. When OK is false,
// Value is the zero value and callers must leave their state unchanged.
type Result[T any] struct {
	OK    bool
	Value T
	Tier  Tier
	Raw   string
}

// Fail returns a failed Result carrying raw.
func Fail[T any](raw string) Result[T] {
	return Result[T]{Raw: raw}
}

var chatterPrefixes = []string{"here is", "here's", "the json", "output:", "response:", "sure", "certainly"}

// CleanJSON strips code fences and conversational lines around a JSON
// document and trims it to the outermost object or array.
func CleanJSON(text string) string {
	text = stripChatter(text)
	if c := candidates(text); len(c) > 0 {
		return c[0]
	}
	return text
}

func stripChatter(text string) string {
	text = strings.TrimSpace(StripFences(strings.TrimSpace(text)))

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		if chatter(lower) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// candidates trims text to the span opened by the first '{' and to the
// span opened by the first '[', earliest opener first. A bracketed aside
// ahead of an object payload leaves the object as the second candidate.
func candidates(text string) []string {
	obj, objStart := span(text, '{', '}')
	arr, arrStart := span(text, '[', ']')
	switch {
	case objStart < 0 && arrStart < 0:
		return nil
	case arrStart < 0:
		return []string{obj}
	case objStart < 0:
		return []string{arr}
	case arrStart < objStart:
		return []string{arr, obj}
	}
	return []string{obj, arr}
}

func span(text string, open, closer byte) (string, int) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", -1
	}
	end := strings.LastIndexByte(text, closer)
	if end < start {
		return text[start:], start
	}
	return text[start : end+1], start
}

func chatter(lower string) bool {
	if strings.ContainsAny(lower, "{[") {
		return false
	}
	for _, p := range chatterPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return strings.Contains(lower, "below is") || strings.Contains(lower, "following is")
}

// JSON decodes the cleaned response into T.
func JSON[T any](raw string) Result[T] {
	for _, c := range candidates(stripChatter(raw)) {
		var v T
		if err := json.Unmarshal([]byte(c), &v); err == nil {
			return Result[T]{OK: true, Value: v, Tier: TierJSON, Raw: raw}
		}
	}
	return Fail[T](raw)
}

// FirstOK returns the first successful result of the parsers, tried in
// order, or a failed Result.
func FirstOK[T any](raw string, parsers ...func(string) Result[T]) Result[T] {
	for _, p := range parsers {
		if r := p(raw); r.OK {
			return r
		}
	}
	return Fail[T](raw)
}
