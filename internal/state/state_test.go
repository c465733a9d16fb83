package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jorge-barreto/narrate/internal/brief"
)

func TestLoad_NoExistingSession(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "session.json"))
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".narrate", "session.json")
	original := New()
	original.CurrentStep = brief.StepOutline
	original.Phase = PhaseIntro
	original.Brief.Set(brief.FieldTrigger, "AI content")
	original.AddRecord(NewRecord("discovery", time.Now()).Finish(time.Now(), OutcomeOK, ""))
	if err := original.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.ID != original.ID {
		t.Fatalf("ID = %q", loaded.ID)
	}
	if loaded.CurrentStep != brief.StepOutline || loaded.Phase != PhaseIntro {
		t.Fatalf("position = %d/%q", loaded.CurrentStep, loaded.Phase)
	}
	if loaded.Brief.Trigger != "AI content" {
		t.Fatalf("Trigger = %q", loaded.Brief.Trigger)
	}
	if len(loaded.History) != 1 || loaded.History[0].Outcome != OutcomeOK {
		t.Fatalf("History = %+v", loaded.History)
	}
}

func TestUnmarshal_RepairsMissingFields(t *testing.T) {
	s, err := Unmarshal([]byte(`{"id":"x"}`))
	if err != nil {
		t.Fatal(err)
	}
	if s.Brief == nil || s.CurrentStep != brief.StepStrategy {
		t.Fatalf("got %+v", s)
	}
	if _, err := Unmarshal([]byte(`{`)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	os.WriteFile(path, []byte("not json"), 0644)
	if _, err := Load(path); err == nil || errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v", err)
	}
}

func TestPhase_NextPrev(t *testing.T) {
	if PhaseOutline.Next() != PhaseIntro || PhaseBody.Next() != PhaseConclusion {
		t.Fatal("Next order wrong")
	}
	if PhaseConclusion.Next() != PhaseNone || PhaseNone.Next() != PhaseNone {
		t.Fatal("Next past the end should be PhaseNone")
	}
	if PhaseIntro.Prev() != PhaseOutline || PhaseOutline.Prev() != PhaseNone {
		t.Fatal("Prev order wrong")
	}
}

func TestPosition(t *testing.T) {
	s := New()
	if got := s.Position(); got != "step 1 (strategic alignment)" {
		t.Fatalf("got %q", got)
	}
	s.Phase = PhaseBody
	if got := s.Position(); got != "phase body" {
		t.Fatalf("got %q", got)
	}
	s.Completed = true
	if got := s.Position(); got != "completed" {
		t.Fatalf("got %q", got)
	}
}

func TestClone_Independent(t *testing.T) {
	s := New()
	s.AddRecord(NewRecord("intro", time.Now()))
	c := s.Clone()
	c.Brief.Set(brief.FieldTrigger, "changed")
	c.History[0].Outcome = "x"
	if s.Brief.Trigger != "" || s.History[0].Outcome != "" {
		t.Fatal("clone shares state with original")
	}
}

func TestHistory_BoundedAndLast(t *testing.T) {
	s := New()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < maxHistory+5; i++ {
		s.AddRecord(NewRecord("body", start).Finish(start.Add(90*time.Second), OutcomeOK, ""))
	}
	if len(s.History) != maxHistory {
		t.Fatalf("len = %d", len(s.History))
	}
	s.AddRecord(NewRecord("intro", start).Finish(start.Add(1500*time.Millisecond), OutcomeFailed, "timeout"))
	r, ok := s.LastRecord("intro")
	if !ok || r.Outcome != OutcomeFailed || r.Duration != "1.5s" {
		t.Fatalf("got %+v", r)
	}
	r, _ = s.LastRecord("body")
	if r.Duration != "1m 30s" {
		t.Fatalf("Duration = %q", r.Duration)
	}
	if _, ok := s.LastRecord("outline"); ok {
		t.Fatal("unexpected record")
	}
}
