package docs

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// memo is a grow-only map with a compute-if-absent miss path: for any key,
// compute runs at most once even under concurrent callers. key must be
// injective; distinct keys sharing a flight would share a value.
type memo[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
	flight  singleflight.Group
	key     func(K) string
}

func newMemo[K comparable, V any](key func(K) string) *memo[K, V] {
	return &memo[K, V]{entries: make(map[K]V), key: key}
}

func (m *memo[K, V]) get(k K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[k]
	return v, ok
}

// getOrCompute reports whether the value came from the memo. A value is
// stored only when compute reports it as keepable.
func (m *memo[K, V]) getOrCompute(k K, compute func() (V, bool)) (V, bool) {
	if v, ok := m.get(k); ok {
		return v, true
	}
	res, _, _ := m.flight.Do(m.key(k), func() (any, error) {
		// a flight for k may have finished between get and Do
		if v, ok := m.get(k); ok {
			return v, nil
		}
		v, keep := compute()
		if keep {
			m.mu.Lock()
			m.entries[k] = v
			m.mu.Unlock()
		}
		return v, nil
	})
	return res.(V), false
}

func (m *memo[K, V]) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
