package store

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process StateStore. Values are copied on the way in and
// out so callers can never alias stored bytes.
type Memory struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	sets    int
	failSet error
	subs    []chan Event
}

// NewMemory returns an empty memory store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

// Get implements StateStore.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), val...), true, nil
}

// Set implements StateStore.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.failSet != nil {
		return m.failSet
	}
	m.blobs[key] = append([]byte(nil), value...)
	for _, ch := range m.subs {
		select {
		case ch <- Event{Key: key}:
		default:
		}
	}
	return nil
}

// Watch implements Watcher. The channel closes when ctx is done.
func (m *Memory) Watch(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 16)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, sub := range m.subs {
			if sub == ch {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

// SetCalls reports how many times Set was called, including failed calls.
func (m *Memory) SetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

// FailSets makes every following Set return err. Pass nil to recover.
func (m *Memory) FailSets(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSet = err
}

// Keys lists the stored namespaces in sorted order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.blobs))
	for k := range m.blobs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
