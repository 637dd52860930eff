package imbridge_test

import (
	"sync"
	"testing"

	"github.com/go-theft-auto/imbridge"
)

func TestQueueRunsInOrder(t *testing.T) {
	q := imbridge.NewQueue()
	var got []int
	for i := 0; i < 5; i++ {
		q.Enqueue(func() { got = append(got, i) })
	}
	if q.Len() != 5 {
		t.Fatalf("Len = %d, want 5", q.Len())
	}
	if n := q.Drain(); n != 5 {
		t.Fatalf("Drain ran %d items", n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("items ran out of order: %v", got)
		}
	}
	if q.Len() != 0 {
		t.Error("queue not empty after Drain")
	}
}

func TestQueueDrainRunsNestedWork(t *testing.T) {
	q := imbridge.NewQueue()
	ran := false
	q.Enqueue(func() { q.Enqueue(func() { ran = true }) })
	if n := q.Drain(); n != 2 || !ran {
		t.Errorf("Drain ran %d items, nested ran = %v", n, ran)
	}
}

func TestRenderThreadOrderAndClose(t *testing.T) {
	var mu sync.Mutex
	var got []int
	initRan := false
	rt := imbridge.NewRenderThread(4, func() { initRan = true }, nil)

	for i := 0; i < 100; i++ {
		rt.Enqueue(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	rt.Close()
	rt.Close()

	if !initRan {
		t.Error("init did not run")
	}
	if len(got) != 100 {
		t.Fatalf("ran %d items before exit, want 100", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("item %d ran at position %d", v, i)
		}
	}

	rt.Enqueue(func() { t.Error("item ran after Close") })
}

func TestRenderThreadSurvivesPanics(t *testing.T) {
	rt := imbridge.NewRenderThread(0, nil, nil)
	done := false
	rt.Enqueue(func() { panic("boom") })
	rt.Enqueue(func() { done = true })
	rt.Close()
	if !done {
		t.Error("item after a panic did not run")
	}
}
