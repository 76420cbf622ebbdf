package kv

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetSetDelete(t *testing.T) {
	s := New[string, int]()

	s.Set("foo", 42)
	val, ok := s.Get("foo")
	assert.True(t, ok)
	assert.Equal(t, 42, val)

	s.Delete("foo")
	_, ok = s.Get("foo")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestStore_SetIfAbsent(t *testing.T) {
	s := New[string, string]()

	assert.True(t, s.SetIfAbsent("item", "first"))
	assert.False(t, s.SetIfAbsent("item", "second"))

	val, _ := s.Get("item")
	assert.Equal(t, "first", val)
}

func TestStore_KeysAndValues(t *testing.T) {
	s := New[string, int]()
	s.Set("a", 1)
	s.Set("b", 2)

	assert.ElementsMatch(t, []string{"a", "b"}, s.Keys())
	assert.ElementsMatch(t, []int{1, 2}, s.Values())
}

func TestStore_GetOrCreateRunsOnce(t *testing.T) {
	s := New[string, *sync.Mutex]()
	var created atomic.Int32
	var wg sync.WaitGroup

	results := make([]*sync.Mutex, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n] = s.GetOrCreate("list", func() *sync.Mutex {
				created.Add(1)
				return &sync.Mutex{}
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	for _, m := range results {
		assert.Same(t, results[0], m)
	}
}

func TestStore_ConcurrentSetIfAbsent(t *testing.T) {
	s := New[int, int]()
	var wins atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if s.SetIfAbsent(1, n) {
				wins.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}
