package queue

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicStack_InsertOrderIsLIFO(t *testing.T) {
	s := NewAtomicStack[int]()
	_, ok := s.Head()
	require.False(t, ok)

	s.Insert(1)
	s.Insert(2)
	s.Insert(3)

	v, ok := s.Head()
	require.True(t, ok)
	assert.Equal(t, 3, v)

	got := s.Flush()
	assert.Equal(t, []int{3, 2, 1}, got)
	assert.True(t, s.IsEmpty())
}

func TestAtomicStack_Pop(t *testing.T) {
	s := NewAtomicStack[string]()
	s.Insert("a")
	s.Insert("b")

	v, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, "b", v)

	v, ok = s.Pop()
	require.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = s.Pop()
	require.False(t, ok)
}

func TestAtomicStack_ConcurrentInsert(t *testing.T) {
	s := NewAtomicStack[int]()
	const (
		goroutines = 16
		perG       = 500
	)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				s.Insert(base*perG + i)
			}
		}(g)
	}
	wg.Wait()

	got := s.Flush()
	require.Len(t, got, goroutines*perG)
	sort.Ints(got)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
	assert.True(t, s.IsEmpty())
}

func TestAtomicStack_ConcurrentInsertAndPop(t *testing.T) {
	s := NewAtomicStack[int]()
	const total = 4000

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			s.Insert(i)
		}
	}()

	seen := make(chan int, total)
	go func() {
		defer wg.Done()
		count := 0
		for count < total {
			if v, ok := s.Pop(); ok {
				seen <- v
				count++
			}
		}
		close(seen)
	}()

	wg.Wait()

	var got []int
	for v := range seen {
		got = append(got, v)
	}
	require.Len(t, got, total)
}
