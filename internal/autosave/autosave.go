package autosave

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jorge-barreto/narrate/internal/state"
	"github.com/jorge-barreto/narrate/internal/storage"
)

// KeyPrefix starts every draft key: narrate:draft:<sessionID>:<unix nanos>.
const KeyPrefix = "narrate:draft:"

const (
	DefaultDebounce  = 3 * time.Second
	DefaultRetention = 3
	storeTimeout     = 10 * time.Second
)

// Options tunes a Saver. Zero values select the defaults.
type Options struct {
	Debounce  time.Duration
	Retention int
	Logger    logrus.FieldLogger
}

// Draft identifies a stored snapshot.
type Draft struct {
	Key       string    `json:"key"`
	SessionID string    `json:"sessionId"`
	SavedAt   time.Time `json:"savedAt"`
}

// Saver snapshots sessions to a store after a quiet period. Only the
// newest Retention snapshots per session are kept. Store errors are
// logged, never returned, so editing is never blocked by persistence.
type Saver struct {
	store     storage.Store
	debounce  time.Duration
	retention int
	log       logrus.FieldLogger
	now       func() time.Time

	mu          sync.Mutex
	timer       *time.Timer
	pending     *state.Session
	fingerprint string
	closed      bool

	writeMu sync.Mutex
}

func New(store storage.Store, opts Options) *Saver {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Retention <= 0 {
		opts.Retention = DefaultRetention
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Saver{
		store:     store,
		debounce:  opts.Debounce,
		retention: opts.Retention,
		log:       opts.Logger.WithField("component", "autosave"),
		now:       time.Now,
	}
}

// Observe records s as the latest snapshot. When the meaningful content
// of s differs from the last observation, the debounce window restarts.
func (a *Saver) Observe(s *state.Session) {
	if s == nil {
		return
	}
	snap := s.Clone()
	fp := Fingerprint(snap)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.pending = snap
	if fp == "" || fp == a.fingerprint {
		return
	}
	a.fingerprint = fp
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, a.fire)
}

// Prime records s as already saved, so only a later meaningful change
// schedules a write. Call it with a session loaded from disk.
func (a *Saver) Prime(s *state.Session) {
	if s == nil {
		return
	}
	fp := Fingerprint(s)
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer == nil {
		a.fingerprint = fp
	}
}

// Pending reports whether a snapshot is waiting for the timer.
func (a *Saver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timer != nil
}

// Flush writes the pending snapshot now, if a save is scheduled.
func (a *Saver) Flush() {
	a.mu.Lock()
	snap := a.take()
	a.mu.Unlock()
	if snap != nil {
		a.write(snap)
	}
}

// Close flushes and stops accepting observations.
func (a *Saver) Close() {
	a.mu.Lock()
	snap := a.take()
	a.closed = true
	a.mu.Unlock()
	if snap != nil {
		a.write(snap)
	}
}

func (a *Saver) fire() {
	a.mu.Lock()
	snap := a.take()
	a.mu.Unlock()
	if snap != nil {
		a.write(snap)
	}
}

// take returns the pending snapshot if a save is scheduled and clears the
// schedule. Callers hold a.mu.
func (a *Saver) take() *state.Session {
	if a.timer == nil {
		return nil
	}
	a.timer.Stop()
	a.timer = nil
	return a.pending
}

func (a *Saver) write(s *state.Session) {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	log := a.log.WithField("session", s.ID)

	data, err := json.Marshal(s)
	if err != nil {
		log.WithError(err).Warn("marshal draft")
		return
	}
	key := Key(s.ID, a.now())
	if err := a.store.Set(ctx, key, data); err != nil {
		log.WithError(err).Warn("save draft")
		return
	}
	log.WithField("key", key).Debug("draft saved")

	keys, err := a.store.Keys(ctx, SessionPrefix(s.ID))
	if err != nil {
		log.WithError(err).Warn("list drafts")
		return
	}
	for len(keys) > a.retention {
		if err := a.store.Remove(ctx, keys[0]); err != nil {
			log.WithError(err).WithField("key", keys[0]).Warn("evict draft")
		}
		keys = keys[1:]
	}
}

// List returns the stored drafts of sessionID, newest first. An empty
// sessionID lists drafts of every session.
func (a *Saver) List(ctx context.Context, sessionID string) ([]Draft, error) {
	prefix := KeyPrefix
	if sessionID != "" {
		prefix = SessionPrefix(sessionID)
	}
	keys, err := a.store.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	var drafts []Draft
	for i := len(keys) - 1; i >= 0; i-- {
		d, err := ParseKey(keys[i])
		if err != nil {
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

// Load decodes the draft stored under key.
func (a *Saver) Load(ctx context.Context, key string) (*state.Session, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return state.Unmarshal(data)
}

// SessionPrefix is the key prefix of one session's drafts.
func SessionPrefix(sessionID string) string {
	return KeyPrefix + sessionID + ":"
}

// Key builds the draft key for a snapshot taken at t. The timestamp is
// zero-padded so lexical order matches chronological order.
func Key(sessionID string, t time.Time) string {
	return fmt.Sprintf("%s%020d", SessionPrefix(sessionID), t.UnixNano())
}

// ParseKey splits a draft key into its parts.
func ParseKey(key string) (Draft, error) {
	rest, ok := strings.CutPrefix(key, KeyPrefix)
	if !ok {
		return Draft{}, fmt.Errorf("not a draft key: %q", key)
	}
	i := strings.LastIndexByte(rest, ':')
	if i <= 0 {
		return Draft{}, fmt.Errorf("not a draft key: %q", key)
	}
	nanos, err := strconv.ParseInt(rest[i+1:], 10, 64)
	if err != nil {
		return Draft{}, fmt.Errorf("not a draft key: %q", key)
	}
	return Draft{Key: key, SessionID: rest[:i], SavedAt: time.Unix(0, nanos).UTC()}, nil
}

// Fingerprint hashes the parts of a session worth saving: the core
// strategy fields, the business-context item, anchors, outline sections
// and generated content. It is "" when all of them are empty.
func Fingerprint(s *state.Session) string {
	b := s.Brief
	if b == nil {
		return ""
	}
	parts := []any{
		b.Trigger, b.MutualGoal, b.TargetKeyword, b.BusinessContext.ItemID,
		b.Anchors, b.Outline.Sections,
		b.IntroContent, b.BodyContent, b.ConclusionContent,
	}
	empty := b.Trigger == "" && b.MutualGoal == "" && b.TargetKeyword == "" &&
		b.BusinessContext.ItemID == "" && len(b.Anchors) == 0 && len(b.Outline.Sections) == 0 &&
		b.IntroContent == "" && b.BodyContent == "" && b.ConclusionContent == ""
	if empty {
		return ""
	}
	data, err := json.Marshal(parts)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
