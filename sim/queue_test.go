package sim

import "testing"

func TestQueueFIFOAndWrap(t *testing.T) {
	q := NewQueue[int](3)
	for i := 1; i <= 3; i++ {
		if !q.Push(i) {
			t.Fatalf("push %d rejected", i)
		}
	}
	if q.Push(4) {
		t.Fatalf("expected a full queue to reject")
	}

	var got []int
	collect := func(v int) { got = append(got, v) }
	if n := q.Drain(collect); n != 3 {
		t.Fatalf("expected 3 drained, got %d", n)
	}
	for _, batch := range [][]int{{4, 5}, {6, 7}} {
		for _, v := range batch {
			if !q.Push(v) {
				t.Fatalf("push %d rejected", v)
			}
		}
		// The second batch starts at slot 2 and wraps to slot 0.
		if n := q.Drain(collect); n != 2 {
			t.Fatalf("expected 2 drained, got %d", n)
		}
	}
	want := []int{1, 2, 3, 4, 5, 6, 7}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if q.Len() != 0 || q.Drain(collect) != 0 {
		t.Fatalf("expected empty queue")
	}
}

func TestQueueDrainKeepsReentrantPushes(t *testing.T) {
	q := NewQueue[int](4)
	q.Push(1)
	q.Drain(func(v int) { q.Push(v + 1) })
	if q.Len() != 1 {
		t.Fatalf("expected the re-queued entry to wait, len=%d", q.Len())
	}
	var next int
	q.Drain(func(v int) { next = v })
	if next != 2 {
		t.Fatalf("expected 2, got %d", next)
	}
}

func TestQueueNilAndClear(t *testing.T) {
	var nilQ *Queue[int]
	if nilQ.Push(1) || nilQ.Len() != 0 || nilQ.Drain(nil) != 0 {
		t.Fatalf("nil queue should be inert")
	}

	q := NewQueue[string](0)
	if q.Cap() != 1 {
		t.Fatalf("expected capacity floor of 1, got %d", q.Cap())
	}
	q.Push("a")
	q.Clear()
	if q.Len() != 0 || !q.Push("b") {
		t.Fatalf("expected clear to free the slot")
	}
}
