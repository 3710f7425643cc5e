// Package store provides session persistence backends.
package store

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"

	"adpilot/internal/chat"
)

// MemoryStore keeps sessions in an expirable LRU. Suited for single
// instance deployments and tests; sessions vanish after the TTL.
type MemoryStore struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryStore builds a store holding up to size sessions for ttl.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = 1024
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &MemoryStore{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*chat.Session, error) {
	raw, ok := m.lru.Get(id)
	if !ok {
		return nil, chat.ErrNotFound
	}
	var s chat.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.Wrap(err, "store: decode session")
	}
	return &s, nil
}

func (m *MemoryStore) Put(_ context.Context, s *chat.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "store: encode session")
	}
	m.lru.Add(s.ID, raw)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.lru.Remove(id)
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]chat.SessionSummary, error) {
	values := m.lru.Values()
	out := make([]chat.SessionSummary, 0, len(values))
	for _, raw := range values {
		var s chat.Session
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		out = append(out, s.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}
