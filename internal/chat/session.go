package chat

import (
	"time"

	"github.com/pkg/errors"
)

// Option is one selectable entity offered to the user.
type Option struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Status string            `json:"status,omitempty"`
	Extra  map[string]string `json:"extra,omitempty"`
}

// PendingSelection is the single open disambiguation question of a
// session. At most one exists at any time.
type PendingSelection struct {
	Level    Level    `json:"level"`
	Options  []Option `json:"options"`
	Prompt   string   `json:"prompt"`
	Attempts int      `json:"attempts"`

	// Drill-down continuation: the level the original question aimed
	// at, the question itself, and its resolved parameters.
	Target   Level          `json:"target"`
	Question string         `json:"question"`
	Params   ResolvedParams `json:"params"`
}

// PendingClarification records an unanswered parameter request on the
// keyword-insight path. The next turn is read as the missing values
// and merged over the stored extraction before re-validating.
type PendingClarification struct {
	Family    Family       `json:"family"`
	Question  string       `json:"question"`
	Extracted ParameterSet `json:"extracted"`
}

// ChainEntry pins the chosen IDs for one level of the hierarchy.
type ChainEntry struct {
	Level Level    `json:"level"`
	IDs   []string `json:"ids"`
	Label string   `json:"label,omitempty"`
}

// Message is one transcript line.
type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Session is the per-conversation state record. It serializes to one
// JSON document in the session store.
type Session struct {
	ID           string                `json:"id"`
	Context      ModuleContext         `json:"module_context"`
	Pending      *PendingSelection     `json:"pending_selection,omitempty"`
	Clarify      *PendingClarification `json:"pending_clarification,omitempty"`
	Chain        []ChainEntry          `json:"resolved_chain,omitempty"`
	LastAnswered Level                 `json:"last_level_answered"`
	Transcript   []Message             `json:"transcript,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ErrChainGap reports an attempt to resolve a level whose parent
// levels are not all resolved yet.
var ErrChainGap = errors.New("chat: resolved chain must be a contiguous level prefix")

// Resolved returns the pinned IDs for a level, if any.
func (s *Session) Resolved(l Level) ([]string, bool) {
	for _, e := range s.Chain {
		if e.Level == l {
			return e.IDs, true
		}
	}
	return nil, false
}

// Extend pins IDs for a level. The chain stays a contiguous prefix:
// every level between CAMPAIGN and l must already be resolved.
// Re-extending a level with identical IDs is a no-op.
func (s *Session) Extend(l Level, ids []string, label string) error {
	if l == LevelAccount {
		return errors.Wrap(ErrChainGap, "account level is never pinned")
	}
	if existing, ok := s.Resolved(l); ok {
		if sameIDs(existing, ids) {
			return nil
		}
		// Re-pinning a level invalidates everything below it.
		s.TruncateBelow(l)
		s.Chain = s.Chain[:len(s.Chain)-1]
	}
	for lv := LevelCampaign; lv < l; lv++ {
		if _, ok := s.Resolved(lv); !ok {
			return ErrChainGap
		}
	}
	s.Chain = append(s.Chain, ChainEntry{Level: l, IDs: ids, Label: label})
	return nil
}

// TruncateBelow drops every chain entry deeper than l, keeping l itself.
func (s *Session) TruncateBelow(l Level) {
	kept := s.Chain[:0]
	for _, e := range s.Chain {
		if e.Level <= l {
			kept = append(kept, e)
		}
	}
	s.Chain = kept
}

// ResetChain clears the chain and any pending interaction.
func (s *Session) ResetChain() {
	s.Chain = nil
	s.Pending = nil
	s.Clarify = nil
}

// Append records a transcript line.
func (s *Session) Append(role, content string, at time.Time) {
	s.Transcript = append(s.Transcript, Message{Role: role, Content: content, At: at})
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		seen[id]--
		if seen[id] < 0 {
			return false
		}
	}
	return true
}

// SessionSummary is the listing row for stored sessions.
type SessionSummary struct {
	ID        string    `json:"id"`
	Turns     int       `json:"turns"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary builds the listing row for this session.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{ID: s.ID, Turns: len(s.Transcript) / 2, UpdatedAt: s.UpdatedAt}
}
