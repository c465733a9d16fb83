package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jorge-barreto/narrate/internal/brief"
	"github.com/jorge-barreto/narrate/internal/outline"
)

func article() *brief.Brief {
	b := brief.New()
	h := b.AddHeadline("Stories <Sell>", false)
	b.SelectHeadline(h.ID)
	b.IntroContent = "Every team publishes."
	b.BodyContent = "## What buyers need\n\nTension, then relief."
	b.ConclusionContent = "Book a demo."
	return b
}

func TestMarkdown_Content(t *testing.T) {
	got := Markdown(article())
	want := "# Stories <Sell>\n\nEvery team publishes.\n\n## What buyers need\n\nTension, then relief.\n\nBook a demo.\n"
	if got != want {
		t.Fatalf("got %q", got)
	}
}

func TestMarkdown_FallsBackToOutline(t *testing.T) {
	b := article()
	b.BodyContent = ""
	s := outline.NewSection("Why now", outline.H3, outline.PhaseRelevance)
	s.Context = "Budgets moved.\nTeams shrank."
	b.Outline.InsertAfter(outline.End, s)
	b.Outline.InsertAfter(outline.End, outline.NewSection("Ignored", outline.H2, outline.PhaseResults))

	got := Markdown(b)
	if !strings.Contains(got, "### Why now\n\n> Budgets moved.\n> Teams shrank.\n\n") {
		t.Fatalf("got %q", got)
	}
	if strings.Contains(got, "Ignored") {
		t.Fatal("results sections rendered although the conclusion is drafted")
	}
}

func TestHTML(t *testing.T) {
	got, err := HTML(article())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"<title>Stories &lt;Sell&gt;</title>",
		"<h2>What buyers need</h2>",
		"<p>Every team publishes.</p>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("html lacks %q:\n%s", want, got)
		}
	}
}

func TestWrite_Format(t *testing.T) {
	var buf bytes.Buffer
	f, err := ParseFormat("md")
	if err != nil {
		t.Fatal(err)
	}
	if err := Write(&buf, article(), f); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "# Stories") {
		t.Fatalf("got %q", buf.String())
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Fatal("expected error")
	}
}
