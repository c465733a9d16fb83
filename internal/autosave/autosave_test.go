package autosave

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/jorge-barreto/narrate/internal/brief"
	"github.com/jorge-barreto/narrate/internal/state"
	"github.com/jorge-barreto/narrate/internal/storage"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	fail error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.data[key] = value
	return nil
}

func (m *memStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStore) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// testSaver returns a saver whose clock ticks one second per call.
func testSaver(store storage.Store, debounce time.Duration) *Saver {
	logger, _ := logtest.NewNullLogger()
	a := New(store, Options{Debounce: debounce, Logger: logger})
	var mu sync.Mutex
	tick := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(time.Second)
		return tick
	}
	return a
}

func session(trigger string) *state.Session {
	s := state.New()
	s.ID = "s1"
	s.Brief.Set(brief.FieldTrigger, trigger)
	return s
}

func TestObserve_DebouncedWrite(t *testing.T) {
	store := newMemStore()
	a := testSaver(store, 30*time.Millisecond)
	a.Observe(session("AI content"))

	if keys, _ := store.Keys(context.Background(), KeyPrefix); len(keys) != 0 {
		t.Fatal("write happened before the debounce window")
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		keys, _ := store.Keys(context.Background(), KeyPrefix)
		if len(keys) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("no draft written, keys = %v", keys)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if a.Pending() {
		t.Fatal("timer still pending after write")
	}
}

func TestObserve_LatestSnapshotWins(t *testing.T) {
	store := newMemStore()
	a := testSaver(store, time.Hour)
	a.Observe(session("first"))
	a.Observe(session("second"))
	a.Flush()

	drafts, err := a.List(context.Background(), "s1")
	if err != nil || len(drafts) != 1 {
		t.Fatalf("drafts = %v, %v", drafts, err)
	}
	got, err := a.Load(context.Background(), drafts[0].Key)
	if err != nil {
		t.Fatal(err)
	}
	if got.Brief.Trigger != "second" {
		t.Fatalf("Trigger = %q", got.Brief.Trigger)
	}
}

func TestObserve_NonMeaningfulChangeRidesAlong(t *testing.T) {
	store := newMemStore()
	a := testSaver(store, time.Hour)
	s := session("AI content")
	a.Observe(s)
	s.Brief.Set(brief.FieldPublishReason, "launch week")
	a.Observe(s)
	a.Flush()

	drafts, _ := a.List(context.Background(), "s1")
	got, _ := a.Load(context.Background(), drafts[0].Key)
	if got.Brief.PublishReason != "launch week" {
		t.Fatalf("PublishReason = %q", got.Brief.PublishReason)
	}
}

func TestObserve_EmptyBriefNotScheduled(t *testing.T) {
	a := testSaver(newMemStore(), time.Hour)
	s := state.New()
	s.Brief.Set(brief.FieldPublishReason, "only a non-core field")
	a.Observe(s)
	if a.Pending() {
		t.Fatal("empty brief scheduled a save")
	}
}

func TestObserve_UnchangedContentDoesNotReschedule(t *testing.T) {
	store := newMemStore()
	a := testSaver(store, time.Hour)
	a.Observe(session("x"))
	a.Flush()
	a.Observe(session("x"))
	if a.Pending() {
		t.Fatal("identical content rescheduled a save")
	}
}

func TestPrime_NonMeaningfulEditWritesNothing(t *testing.T) {
	store := newMemStore()
	a := testSaver(store, time.Hour)
	s := session("AI content")
	a.Prime(s)
	s.Brief.Set(brief.FieldPublishReason, "launch week")
	a.Observe(s)
	if a.Pending() {
		t.Fatal("non-meaningful edit scheduled a save")
	}
	a.Close()
	if keys, _ := store.Keys(context.Background(), KeyPrefix); len(keys) != 0 {
		t.Fatalf("keys = %v", keys)
	}
}

func TestPrime_MeaningfulEditStillSaves(t *testing.T) {
	store := newMemStore()
	a := testSaver(store, time.Hour)
	s := session("AI content")
	a.Prime(s)
	s.Brief.Set(brief.FieldTrigger, "AI search")
	a.Observe(s)
	a.Close()
	if keys, _ := store.Keys(context.Background(), KeyPrefix); len(keys) != 1 {
		t.Fatalf("keys = %v", keys)
	}
}

func TestRetention_KeepsNewestThree(t *testing.T) {
	store := newMemStore()
	a := testSaver(store, time.Hour)
	for i, trig := range []string{"a", "b", "c", "d", "e"} {
		a.Observe(session(trig))
		a.Flush()
		keys, _ := store.Keys(context.Background(), SessionPrefix("s1"))
		if want := min(i+1, 3); len(keys) != want {
			t.Fatalf("after %d saves: %d keys", i+1, len(keys))
		}
	}
	drafts, _ := a.List(context.Background(), "s1")
	newest, _ := a.Load(context.Background(), drafts[0].Key)
	oldest, _ := a.Load(context.Background(), drafts[2].Key)
	if newest.Brief.Trigger != "e" || oldest.Brief.Trigger != "c" {
		t.Fatalf("kept %q..%q", oldest.Brief.Trigger, newest.Brief.Trigger)
	}
}

func TestRetention_PerSession(t *testing.T) {
	store := newMemStore()
	a := testSaver(store, time.Hour)
	for _, id := range []string{"s1", "s2"} {
		for _, trig := range []string{"a", "b", "c", "d"} {
			s := session(trig)
			s.ID = id
			a.Observe(s)
			a.Flush()
		}
	}
	all, _ := a.List(context.Background(), "")
	if len(all) != 6 {
		t.Fatalf("drafts = %d", len(all))
	}
}

func TestWrite_StoreErrorLoggedNotReturned(t *testing.T) {
	store := newMemStore()
	store.fail = errors.New("disk full")
	logger, hook := logtest.NewNullLogger()
	a := New(store, Options{Debounce: time.Hour, Logger: logger})

	a.Observe(session("x"))
	a.Flush()

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel || entry.Message != "save draft" {
		t.Fatalf("entry = %+v", entry)
	}
	if entry.Data["session"] != "s1" {
		t.Fatalf("fields = %v", entry.Data)
	}
}

func TestClose_FlushesAndStops(t *testing.T) {
	store := newMemStore()
	a := testSaver(store, time.Hour)
	a.Observe(session("x"))
	a.Close()
	if keys, _ := store.Keys(context.Background(), KeyPrefix); len(keys) != 1 {
		t.Fatalf("keys = %v", keys)
	}
	a.Observe(session("y"))
	if a.Pending() {
		t.Fatal("closed saver accepted an observation")
	}
}

func TestKey_RoundTrip(t *testing.T) {
	at := time.Date(2025, 6, 1, 9, 30, 0, 42, time.UTC)
	key := Key("abc-123", at)
	if !strings.HasPrefix(key, "narrate:draft:abc-123:") || len(key) != len("narrate:draft:abc-123:")+20 {
		t.Fatalf("key = %q", key)
	}
	d, err := ParseKey(key)
	if err != nil {
		t.Fatal(err)
	}
	if d.SessionID != "abc-123" || !d.SavedAt.Equal(at) {
		t.Fatalf("got %+v", d)
	}
	if _, err := ParseKey("narrate:draft:nope"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := ParseKey("other:1"); err == nil {
		t.Fatal("expected error")
	}
}

func TestFingerprint(t *testing.T) {
	a, b := session("x"), session("x")
	b.Brief.Set(brief.FieldCallToAction, "book a demo")
	if Fingerprint(a) != Fingerprint(b) {
		t.Fatal("call to action should not affect the fingerprint")
	}
	b.Brief.Set(brief.FieldIntroContent, "Once upon a time")
	if Fingerprint(a) == Fingerprint(b) {
		t.Fatal("generated content should affect the fingerprint")
	}
	if Fingerprint(state.New()) != "" {
		t.Fatal("empty session should have no fingerprint")
	}
}
