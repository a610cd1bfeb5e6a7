// Package store keeps the registered subscriptions and matches messages
// against them.
package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meridianmq/mqselect/pkg/message"
	"github.com/meridianmq/mqselect/pkg/selector"
)

// Subscription is a named, compiled selector with match statistics.
// An empty selector accepts every message.
type Subscription struct {
	ID          string
	Name        string
	Selector    string
	Description string
	CreateTime  time.Time
	Matched     uint64
	Dropped     uint64

	compiled *selector.Selector
}

// Store is a thread-safe in-memory subscription registry.
type Store struct {
	mu   sync.RWMutex
	subs map[string]*Subscription
}

// New creates an empty store.
func New() *Store {
	return &Store{subs: make(map[string]*Subscription)}
}

// Create registers a subscription. The selector source is compiled up
// front, so a stored subscription never fails at match time.
func (s *Store) Create(name, source, description string) (Subscription, error) {
	if name == "" {
		return Subscription{}, fmt.Errorf("subscription name must not be empty")
	}
	compiled, err := selector.CompileOrNil(source)
	if err != nil {
		return Subscription{}, fmt.Errorf("invalid selector for subscription '%s': %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.subs[name]; exists {
		return Subscription{}, fmt.Errorf("subscription '%s' already exists", name)
	}
	sub := &Subscription{
		ID:          uuid.NewString(),
		Name:        name,
		Selector:    source,
		Description: description,
		CreateTime:  time.Now().UTC(),
		compiled:    compiled,
	}
	s.subs[name] = sub
	return *sub, nil
}

// Get returns a snapshot of the named subscription.
func (s *Store) Get(name string) (Subscription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subs[name]
	if !ok {
		return Subscription{}, false
	}
	return *sub, true
}

// List returns snapshots of all subscriptions ordered by name.
func (s *Store) List() []Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, *sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Delete removes the named subscription.
func (s *Store) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[name]; !ok {
		return false
	}
	delete(s.subs, name)
	return true
}

// Count returns the number of registered subscriptions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Match evaluates the message against every subscription, updates the
// per-subscription counters and returns snapshots of the matches ordered
// by name.
func (s *Store) Match(m *message.Message) []Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Subscription
	for _, sub := range s.subs {
		if sub.compiled.Filter(m) {
			sub.Matched++
			out = append(out, *sub)
		} else {
			sub.Dropped++
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// MatchOne evaluates the message against a single subscription and
// updates its counters.
func (s *Store) MatchOne(name string, m *message.Message) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[name]
	if !ok {
		return false, fmt.Errorf("subscription '%s' not found", name)
	}
	if sub.compiled.Filter(m) {
		sub.Matched++
		return true, nil
	}
	sub.Dropped++
	return false, nil
}
