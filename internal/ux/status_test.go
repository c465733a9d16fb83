package ux

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jorge-barreto/narrate/internal/brief"
	"github.com/jorge-barreto/narrate/internal/catalog"
	"github.com/jorge-barreto/narrate/internal/outline"
	"github.com/jorge-barreto/narrate/internal/state"
)

func TestRenderStatus_Collecting(t *testing.T) {
	s := state.New()
	s.CurrentStep = brief.StepAudience
	s.Brief.Set(brief.FieldTrigger, "AI content all sounds the same")
	s.AddRecord(state.NewRecord("discovery", s.CreatedAt).Finish(s.CreatedAt, state.OutcomeFailed, "timeout"))

	var buf bytes.Buffer
	RenderStatus(&buf, s, catalog.Empty)
	out := buf.String()
	for _, want := range []string{
		"step 2 (audience resonance)",
		"missing: primaryAudienceId, journeyStage, anchors",
		"AI content all sounds the same",
		"failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("status lacks %q:\n%s", want, out)
		}
	}
}

func TestRenderStatus_Completed(t *testing.T) {
	s := state.New()
	s.Completed = true
	s.Phase = state.PhaseConclusion
	s.Brief.IntroContent = "one two three"
	var buf bytes.Buffer
	RenderStatus(&buf, s, nil)
	if !strings.Contains(buf.String(), "completed") || !strings.Contains(buf.String(), "(3 words)") {
		t.Fatalf("got:\n%s", buf.String())
	}
}

func TestRenderOutline_IndentsAndAssets(t *testing.T) {
	var o outline.Outline
	top := outline.NewSection("Top", outline.H2, outline.PhaseResonance)
	sub := outline.NewSection("Sub", outline.H4, outline.PhaseResults)
	o.InsertAfter(outline.End, top)
	o.InsertAfter(outline.End, sub)
	o.SetAssetLink(sub.ID, outline.AssetFeature, "f1")

	var buf bytes.Buffer
	RenderOutline(&buf, o)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.Contains(lines[1], "    Sub") || !strings.Contains(lines[1], "feature f1") {
		t.Fatalf("line = %q", lines[1])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("a  b\nc", 10); got != "a b c" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("ééééééééééé", 6); got != "ééé..." {
		t.Fatalf("got %q", got)
	}
}
