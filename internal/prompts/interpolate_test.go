package prompts

import (
	"strings"
	"testing"
)

func TestInterpolate_HelloScenario(t *testing.T) {
	got := Interpolate("Hello {{name}}, keyword: {{kw}}", Vars{"name": "Ava"})
	if got != "Hello Ava, keyword: [Not provided]" {
		t.Fatalf("got %q", got)
	}
}

func TestInterpolate_ListsJoined(t *testing.T) {
	got := Interpolate("kw: {{keywords}}", Vars{"keywords": []string{"a", "b", "c"}})
	if got != "kw: a, b, c" {
		t.Fatalf("got %q", got)
	}
}

func TestInterpolate_WhitespaceInBraces(t *testing.T) {
	got := Interpolate("{{ name }}!", Vars{"name": "Ava"})
	if got != "Ava!" {
		t.Fatalf("got %q", got)
	}
}

func TestInterpolate_MalformedTokensReplaced(t *testing.T) {
	got := Interpolate("a {{}} b {{not a name}} c {{x-y}}", Vars{})
	if strings.Contains(got, "{{") || strings.Contains(got, "}}") {
		t.Fatalf("raw template syntax left in %q", got)
	}
	if strings.Count(got, NotProvided) != 3 {
		t.Fatalf("got %q", got)
	}
}

func TestInterpolate_NestedBracesReplaced(t *testing.T) {
	for _, tpl := range []string{
		"x {{a{b}}} y",
		"x {{{{kw}}}} y",
		"{{ {kw} }}",
		"{{{{{{a}}}}}}",
		"{{a\nb}}",
	} {
		got := Interpolate(tpl, Vars{"kw": "seo"})
		if strings.Contains(got, "{{") && strings.Contains(got[strings.Index(got, "{{"):], "}}") {
			t.Errorf("%q: raw template syntax left in %q", tpl, got)
		}
		if !strings.Contains(got, NotProvided) {
			t.Errorf("%q: got %q", tpl, got)
		}
	}
}

func TestInterpolate_ValueNotReinterpreted(t *testing.T) {
	got := Interpolate("{{a}}", Vars{"a": "{{b}}", "b": "nope"})
	if got != "[Not provided]" {
		t.Fatalf("got %q", got)
	}
}

func TestInterpolate_EmptyValueKept(t *testing.T) {
	got := Interpolate("[{{a}}]", Vars{"a": ""})
	if got != "[]" {
		t.Fatalf("got %q", got)
	}
}

func TestInterpolate_Deterministic(t *testing.T) {
	tpl := "{{a}} {{b}} {{c}}"
	vars := Vars{"a": 1, "b": []string{"x"}}
	first := Interpolate(tpl, vars)
	for i := 0; i < 10; i++ {
		if got := Interpolate(tpl, vars); got != first {
			t.Fatalf("run %d: got %q, want %q", i, got, first)
		}
	}
	if first != "1 x [Not provided]" {
		t.Fatalf("got %q", first)
	}
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("{{a}} {{ b }} {{a}} {{}}")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v", got)
	}
}

func TestDefaults_RenderWithoutVars(t *testing.T) {
	for cat, tpl := range Defaults() {
		out := Interpolate(tpl.Template, nil)
		if strings.Contains(out, "{{") {
			t.Fatalf("%s: raw syntax left", cat)
		}
		if len(tpl.Variables) == 0 {
			t.Fatalf("%s: no variables documented", cat)
		}
		if !tpl.IsActive || tpl.Category != cat {
			t.Fatalf("%s: bad default %+v", cat, tpl)
		}
	}
	if len(Defaults()) != len(Categories()) {
		t.Fatalf("expected %d defaults", len(Categories()))
	}
}
