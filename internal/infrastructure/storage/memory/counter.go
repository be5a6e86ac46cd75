// Package memory provides in-process stores. They back STORAGE_DRIVER=memory
// and the service tests; data does not survive a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"inventory/internal/domain/counter"
)

// CounterStore keeps counters in a map guarded by one mutex, which makes
// Create and IncrementAndGet atomic per call.
type CounterStore struct {
	mu     sync.Mutex
	values map[string]int64
}

// NewCounterStore creates an empty counter store.
func NewCounterStore() *CounterStore {
	return &CounterStore{values: make(map[string]int64)}
}

func (s *CounterStore) FindByName(_ context.Context, name string) (counter.Counter, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[name]
	if !ok {
		return counter.Counter{}, false, nil
	}
	return counter.Counter{Name: name, Value: v}, true, nil
}

func (s *CounterStore) Create(_ context.Context, name string, initial int64) (counter.CreateOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[name]; ok {
		return counter.AlreadyExists, nil
	}
	s.values[name] = initial
	return counter.Created, nil
}

func (s *CounterStore) IncrementAndGet(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[name]
	if !ok {
		return 0, fmt.Errorf("increment counter %q: not found", name)
	}
	v++
	s.values[name] = v
	return v, nil
}

// All returns a snapshot of every counter ordered by name.
func (s *CounterStore) All() []counter.Counter {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]counter.Counter, 0, len(s.values))
	for name, v := range s.values {
		out = append(out, counter.Counter{Name: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

var _ counter.Repository = (*CounterStore)(nil)
