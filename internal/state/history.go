package state

import (
	"fmt"
	"time"
)

// Generation outcomes recorded in the session history.
const (
	OutcomeOK        = "ok"
	OutcomeUnparsed  = "unparsed"
	OutcomeFailed    = "failed"
	OutcomeDiscarded = "discarded"
)

// maxHistory bounds the records kept in a session file.
const maxHistory = 200

// Record is one generation call.
type Record struct {
	Target   string    `json:"target"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end,omitempty"`
	Duration string    `json:"duration,omitempty"`
	Outcome  string    `json:"outcome"`
	Detail   string    `json:"detail,omitempty"`
}

// NewRecord starts a record for target at start.
func NewRecord(target string, start time.Time) Record {
	return Record{Target: target, Start: start.UTC()}
}

// Finish stamps the end time, duration and outcome.
func (r Record) Finish(end time.Time, outcome, detail string) Record {
	r.End = end.UTC()
	r.Duration = formatDuration(r.End.Sub(r.Start))
	r.Outcome = outcome
	r.Detail = detail
	return r
}

// AddRecord appends r to the history, dropping the oldest entries beyond
// the retention bound.
func (s *Session) AddRecord(r Record) {
	s.History = append(s.History, r)
	if over := len(s.History) - maxHistory; over > 0 {
		s.History = append([]Record(nil), s.History[over:]...)
	}
}

// LastRecord returns the most recent record for target.
func (s *Session) LastRecord(target string) (Record, bool) {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Target == target {
			return s.History[i], true
		}
	}
	return Record{}, false
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %02ds", m, s)
}
