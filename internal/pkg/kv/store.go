// Package kv provides a generic thread-safe key-value store.
package kv

import "sync"

// Store is a thread-safe generic key-value store.
type Store[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V
}

// New creates a new key-value store.
func New[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{
		data: make(map[K]V),
	}
}

// Get retrieves a value by key.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	return val, ok
}

// Set stores a value by key.
func (s *Store[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// SetIfAbsent stores value only when key is missing and reports whether it
// did.
func (s *Store[K, V]) SetIfAbsent(key K, value V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return false
	}
	s.data[key] = value
	return true
}

// GetOrCreate returns the value under key, storing create() first if the key
// is missing. create runs under the write lock.
func (s *Store[K, V]) GetOrCreate(key K, create func() V) V {
	s.mu.RLock()
	val, ok := s.data[key]
	s.mu.RUnlock()
	if ok {
		return val
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if val, ok := s.data[key]; ok {
		return val
	}
	val = create()
	s.data[key] = val
	return val
}

// Delete removes a key from the store.
func (s *Store[K, V]) Delete(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Len returns the number of items in the store.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Keys returns all keys in the store.
func (s *Store[K, V]) Keys() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]K, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// Values returns a snapshot of all values.
func (s *Store[K, V]) Values() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vals := make([]V, 0, len(s.data))
	for _, v := range s.data {
		vals = append(vals, v)
	}
	return vals
}
