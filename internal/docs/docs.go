// Package docs holds the articles printed by 'narrate docs'.
package docs

import (
	"fmt"
	"sort"
	"strings"
)

// Topic is one article.
type Topic struct {
	Name    string
	Aliases []string
	Title   string
	Summary string
	Content string // plain text, no ANSI
}

// All returns every topic in display order.
func All() []Topic {
	return topics
}

// Get finds a topic by name, alias, or unique name prefix, ignoring case.
func Get(query string) (Topic, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, t := range topics {
		if t.Name == q {
			return t, nil
		}
		for _, a := range t.Aliases {
			if a == q {
				return t, nil
			}
		}
	}
	var matches []Topic
	if q != "" {
		for _, t := range topics {
			if strings.HasPrefix(t.Name, q) {
				matches = append(matches, t)
			}
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return Topic{}, fmt.Errorf("unknown topic %q; run 'narrate docs' to list available topics", query)
	}
	names := make([]string, len(matches))
	for i, t := range matches {
		names[i] = t.Name
	}
	sort.Strings(names)
	return Topic{}, fmt.Errorf("topic %q is ambiguous (%s)", query, strings.Join(names, ", "))
}
