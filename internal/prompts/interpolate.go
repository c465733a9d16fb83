package prompts

import (
	"fmt"
	"regexp"
	"strings"
)

// NotProvided replaces any placeholder left after substitution.
const NotProvided = "[Not provided]"

// Vars binds template variable names to values. Values are strings or
// string lists; anything else is formatted with fmt.
type Vars map[string]any

var (
	namedRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_.]*)\s*\}\}`)
	tokenRe = regexp.MustCompile(`(?s)\{\{.*?\}\}`)
)

// Interpolate substitutes {{name}} placeholders from vars, then replaces
// every remaining {{...}} token with NotProvided. The output never contains
// raw template syntax.
func Interpolate(template string, vars Vars) string {
	out := namedRe.ReplaceAllStringFunc(template, func(m string) string {
		name := namedRe.FindStringSubmatch(m)[1]
		v, ok := vars[name]
		if !ok {
			return m
		}
		return format(v)
	})
	// Nested or doubled braces can leave a token behind after one pass.
	for tokenRe.MatchString(out) {
		out = tokenRe.ReplaceAllString(out, NotProvided)
	}
	return out
}

// Placeholders returns the distinct variable names used in template, in
// order of first appearance.
func Placeholders(template string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range namedRe.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		return strings.Join(x, ", ")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
