package jsql

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainReasons(e *Error) []string {
	var reasons []string
	for n := e; n != nil; n = n.Next() {
		reasons = append(reasons, n.Reason())
	}
	return reasons
}

func TestSetNextAppendsAtTail(t *testing.T) {
	t.Parallel()

	head := New("a")
	head.SetNext(New("b"))
	head.SetNext(New("c"))
	head.SetNext(nil)

	assert.Equal(t, []string{"a", "b", "c"}, chainReasons(head))

	// Appending through a middle node still lands at the tail.
	head.Next().SetNext(New("d"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, chainReasons(head))
}

func TestNextWarning(t *testing.T) {
	t.Parallel()

	w := NewWarning("w1")
	w.SetNextWarning(NewDataTruncation(1, false, true, 10, 5, nil))
	require.NotNil(t, w.NextWarning())
	assert.Equal(t, KindDataTruncation, w.NextWarning().Kind())
	assert.Nil(t, w.NextWarning().NextWarning())

	mixed := NewWarning("w2")
	mixed.SetNext(New("not a warning"))
	assert.Nil(t, mixed.NextWarning())
	assert.NotNil(t, mixed.Next())
}

func TestIteratorOrder(t *testing.T) {
	t.Parallel()

	c2 := errors.New("c2")
	c1 := fmt.Errorf("c1: %w", c2)
	c3 := errors.New("c3")
	e1 := New("e1", WithCause(c1))
	e2 := New("e2", WithCause(c3))
	e3 := New("e3")
	e1.SetNext(e2)
	e1.SetNext(e3)

	var got []error
	it := e1.Iterator()
	for it.HasNext() {
		err, iterErr := it.Next()
		require.NoError(t, iterErr)
		got = append(got, err)
	}
	assert.Equal(t, []error{e1, c1, c2, e2, c3, e3}, got)

	_, err := it.Next()
	assert.True(t, errors.Is(err, ErrChainExhausted))

	// A fresh iterator starts over.
	first, err := e1.Iterator().Next()
	require.NoError(t, err)
	assert.Same(t, e1, first)
}

func TestWalkStops(t *testing.T) {
	t.Parallel()

	head := New("a", WithCause(errors.New("cause")))
	head.SetNext(New("b"))

	var seen int
	head.Walk(func(error) bool {
		seen++
		return seen < 2
	})
	assert.Equal(t, 2, seen)
}

func TestConcurrentSetNext(t *testing.T) {
	t.Parallel()

	const appenders = 64
	head := New("head")

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < appenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			head.SetNext(New(strconv.Itoa(i)))
		}(i)
	}
	close(start)
	require.False(t, waitTimeout(&wg, 5*time.Second), "appenders did not finish")

	reasons := chainReasons(head)
	require.Len(t, reasons, appenders+1)
	assert.Equal(t, "head", reasons[0])

	seen := make(map[string]bool, appenders)
	for _, r := range reasons[1:] {
		assert.False(t, seen[r], "%s linked twice", r)
		seen[r] = true
	}
	assert.Len(t, seen, appenders)
}
